package docModel

// Category is the semantic document type assigned by the filename classifier.
type Category string

const (
	CategoryIncomeTax         Category = "Imposto de Renda"
	CategoryRegistration      Category = "Registro"
	CategoryTaxStatus         Category = "Situação Fiscal"
	CategoryTaxBilling        Category = "Faturamento Fiscal"
	CategoryManagementBilling Category = "Faturamento Gerencial"
	CategoryCreditBureau      Category = "Órgão de Proteção ao Crédito"
	CategoryCNPJCard          Category = "Cartão CNPJ"
	CategoryBankStatement     Category = "Extrato Bancário"
	CategoryAdditional        Category = "Documento Adicional"
)

// Route decides how a document's content is recovered.
type Route string

const (
	//standard route: text extraction strategy picked by content type
	RouteStandardText Route = "StandardText"
	//deferred route: table recovery + SCR structured extraction after the first pass
	RouteDeferredStructured Route = "DeferredStructured"
)

type ContentType string

const (
	ContentTypePDF  ContentType = "application/pdf"
	ContentTypeJPEG ContentType = "image/jpeg"
	ContentTypePNG  ContentType = "image/png"
	ContentTypeDOC  ContentType = "application/msword"
	ContentTypeDOCX ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// IsSupportedContentType checks the upload allow-list. Anything else is
// rejected before classification runs.
func IsSupportedContentType(ct string) bool {
	switch ContentType(ct) {
	case ContentTypePDF, ContentTypeJPEG, ContentTypePNG, ContentTypeDOC, ContentTypeDOCX:
		return true
	}
	return false
}

// UploadedDocument is one file as received. Immutable once built; owned by the
// single pipeline invocation that received it and discarded after extraction.
type UploadedDocument struct {
	Filename    string
	ContentType ContentType
	Bytes       []byte
}

type ExtractionStatus string

const (
	StatusProcessed  ExtractionStatus = "processado"
	StatusEmpty      ExtractionStatus = "vazio"
	StatusPending    ExtractionStatus = "aguardando_processamento_estruturado"
	StatusError      ExtractionStatus = "erro"
)

// ExtractionResult is created once per uploaded document. The only mutation
// after creation is the deferred route replacing its placeholder text.
type ExtractionResult struct {
	Filename   string           `json:"filename"`
	Category   Category         `json:"category"`
	Status     ExtractionStatus `json:"status"`
	Text       string           `json:"-"`
	TextLength int              `json:"text_length"`
	Error      string           `json:"error,omitempty"`
}

// PositionalGrid is the row/column text matrix produced by concatenating every
// detected table of one document in detection order. Indices are stable within
// one grid but not guaranteed aligned with the visual layout; out-of-range
// access means "field not found", never a fatal error.
type PositionalGrid [][]string

// Cell returns the cell at (row, col) and whether it exists.
func (g PositionalGrid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g) {
		return "", false
	}
	if col < 0 || col >= len(g[row]) {
		return "", false
	}
	return g[row][col], true
}

const Unidentified = "não identificado"

// SCRExtraction holds the structured fields recovered from a credit-bureau
// statement. Always fully populated: absent fields default, they never raise.
type SCRExtraction struct {
	DebtCurrent  float64 `json:"divida_a_vencer"`
	DebtOverdue  float64 `json:"divida_vencida"`
	DebtTotal    float64 `json:"divida_total"`
	CompanyName  string  `json:"razao_social"`
	CompanyTaxID string  `json:"cnpj"`
	Error        string  `json:"error,omitempty"`
}

type SegmentLabel string

const (
	SegmentRetail     SegmentLabel = "Comércio"
	SegmentIndustry   SegmentLabel = "Indústria"
	SegmentServices   SegmentLabel = "Serviços"
	SegmentTechnology SegmentLabel = "Tecnologia"
	SegmentHealth     SegmentLabel = "Saúde"
	SegmentEducation  SegmentLabel = "Educação"
	SegmentOther      SegmentLabel = "Outro"
)
