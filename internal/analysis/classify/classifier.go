package classify

import (
	"strings"

	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
)

// Classification pairs the semantic category with the extraction route.
type Classification struct {
	Category docModel.Category
	Route    docModel.Route
}

type predicate struct {
	match  func(name string) bool
	result Classification
}

func contains(terms ...string) func(string) bool {
	return func(name string) bool {
		for _, t := range terms {
			if strings.Contains(name, t) {
				return true
			}
		}
		return false
	}
}

func all(terms ...string) func(string) bool {
	return func(name string) bool {
		for _, t := range terms {
			if !strings.Contains(name, t) {
				return false
			}
		}
		return true
	}
}

// Match order is part of the contract: first matching predicate wins and a
// filename like "contrato_fiscal.pdf" deliberately lands on the earlier rule.
var predicates = []predicate{
	{contains("cartao_cnpj", "cartão cnpj", "cartao cnpj", "cnpj"), Classification{docModel.CategoryCNPJCard, docModel.RouteStandardText}},
	{contains("registrato"), Classification{docModel.CategoryRegistration, docModel.RouteDeferredStructured}},
	{contains("imposto", "irpf"), Classification{docModel.CategoryIncomeTax, docModel.RouteStandardText}},
	{contains("registro", "contrato"), Classification{docModel.CategoryRegistration, docModel.RouteStandardText}},
	{func(name string) bool {
		return strings.Contains(name, "fiscal") && !strings.Contains(name, "faturamento")
	}, Classification{docModel.CategoryTaxStatus, docModel.RouteStandardText}},
	{all("faturamento", "gerencial"), Classification{docModel.CategoryManagementBilling, docModel.RouteStandardText}},
	{contains("faturamento"), Classification{docModel.CategoryTaxBilling, docModel.RouteStandardText}},
	{contains("spc", "serasa"), Classification{docModel.CategoryCreditBureau, docModel.RouteStandardText}},
	{contains("demonstrativo", "extrato"), Classification{docModel.CategoryBankStatement, docModel.RouteStandardText}},
}

// ClassifyFilename assigns exactly one category and route from the lower-cased
// filename. Falls through to "Documento Adicional" on the standard route.
func ClassifyFilename(filename string) Classification {
	name := strings.ToLower(filename)
	for _, p := range predicates {
		if p.match(name) {
			return p.result
		}
	}
	return Classification{docModel.CategoryAdditional, docModel.RouteStandardText}
}
