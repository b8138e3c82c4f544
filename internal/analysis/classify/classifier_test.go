package classify

import (
	"testing"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

func TestClassifyFilename_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		category docModel.Category
		route    docModel.Route
	}{
		{
			name:     "CNPJ_Card",
			filename: "cartao_cnpj_empresa.pdf",
			category: docModel.CategoryCNPJCard,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "CNPJ_Beats_Contract",
			filename: "contrato_cnpj.pdf",
			category: docModel.CategoryCNPJCard,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Registrato_Deferred_Route",
			filename: "Registrato_SCR_2024.pdf",
			category: docModel.CategoryRegistration,
			route:    docModel.RouteDeferredStructured,
		},
		{
			name:     "Income_Tax",
			filename: "declaracao_imposto_de_renda.pdf",
			category: docModel.CategoryIncomeTax,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Income_Tax_IRPF",
			filename: "IRPF-2023.pdf",
			category: docModel.CategoryIncomeTax,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Contract_Is_Registration",
			filename: "contrato_social.docx",
			category: docModel.CategoryRegistration,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Contract_Beats_Tax_Status",
			filename: "contrato_fiscal.pdf",
			category: docModel.CategoryRegistration,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Tax_Status_Without_Billing",
			filename: "situacao_fiscal.pdf",
			category: docModel.CategoryTaxStatus,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Management_Billing",
			filename: "faturamento_gerencial_2024.xlsx.pdf",
			category: docModel.CategoryManagementBilling,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Tax_Billing",
			filename: "relatorio_faturamento_fiscal.pdf",
			category: docModel.CategoryTaxBilling,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Credit_Bureau_Serasa",
			filename: "consulta_serasa.pdf",
			category: docModel.CategoryCreditBureau,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Bank_Statement",
			filename: "extrato_conta_corrente.pdf",
			category: docModel.CategoryBankStatement,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Uppercase_Is_Normalized",
			filename: "EXTRATO_JANEIRO.PDF",
			category: docModel.CategoryBankStatement,
			route:    docModel.RouteStandardText,
		},
		{
			name:     "Unknown_Falls_Through",
			filename: "foto_fachada_loja.png",
			category: docModel.CategoryAdditional,
			route:    docModel.RouteStandardText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFilename(tt.filename)
			if got.Category != tt.category {
				t.Errorf("Category got %v, want %v", got.Category, tt.category)
			}
			if got.Route != tt.route {
				t.Errorf("Route got %v, want %v", got.Route, tt.route)
			}
		})
	}
}
