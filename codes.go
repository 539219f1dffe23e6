package darf

// CodeEntry maps a federal charge code to its tax-type label and the
// pattern that identifies the label in document text. Extraction is
// table-driven: codes absent from this table are ignored, and supporting a
// new code is a data change, not a code change.
type CodeEntry struct {
	Code    string
	TaxType string
	Pattern string
}

// chargeCodes is the table of recognized DARF charge codes. Codes are
// unique keys. The label patterns are alternations because the reports
// abbreviate inconsistently.
var chargeCodes = []CodeEntry{
	{Code: "8109", TaxType: "PIS", Pattern: `PIS(?:/PASEP)?`},
	{Code: "6912", TaxType: "PIS", Pattern: `PIS(?:/PASEP)?`},
	{Code: "2172", TaxType: "COFINS", Pattern: `COFINS`},
	{Code: "5856", TaxType: "COFINS", Pattern: `COFINS`},
	{Code: "2089", TaxType: "IRPJ", Pattern: `IRPJ`},
	{Code: "2372", TaxType: "CSLL", Pattern: `CSLL`},
	{Code: "1170", TaxType: "CP-TERCEIROS", Pattern: `CP[\s-]?TERCEIROS|TERCEIROS`},
	{Code: "1646", TaxType: "CP-PATRONAL", Pattern: `CP[\s-]?PATRONAL|PATRONAL`},
}

// cnoCode is the only charge code that carries a CNO works registration.
const cnoCode = "1646"
