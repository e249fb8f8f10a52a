package model

// CanonicalKey 规范语义键
// 同一语义量在不同厂商导出文件里有多种列名写法，
// 规范键是系统内部唯一的语义标识
type CanonicalKey string

const (
	KeyGSTIN         CanonicalKey = "gstin"
	KeyLegalName     CanonicalKey = "legal_name"
	KeyInvoiceNo     CanonicalKey = "invoice_no"
	KeyInvoiceDate   CanonicalKey = "invoice_date"
	KeyInvoiceValue  CanonicalKey = "invoice_value"
	KeyTaxableValue  CanonicalKey = "taxable_value"
	KeyIGST          CanonicalKey = "igst"
	KeyCGST          CanonicalKey = "cgst"
	KeySGST          CanonicalKey = "sgst"
	KeyCess          CanonicalKey = "cess"
	KeyRate          CanonicalKey = "rate"
	KeyPlaceOfSupply CanonicalKey = "place_of_supply"
	KeyNoteType      CanonicalKey = "note_type"
	KeyNoteValue     CanonicalKey = "note_value"
	KeyReturnPeriod  CanonicalKey = "return_period"
	KeyTotalTax      CanonicalKey = "total_tax"
	KeyITCIGST       CanonicalKey = "itc_igst"
	KeyITCCGST       CanonicalKey = "itc_cgst"
	KeyITCSGST       CanonicalKey = "itc_sgst"
)

// AllKeys 全部规范键（注册表初始化与校验用）
func AllKeys() []CanonicalKey {
	return []CanonicalKey{
		KeyGSTIN,
		KeyLegalName,
		KeyInvoiceNo,
		KeyInvoiceDate,
		KeyInvoiceValue,
		KeyTaxableValue,
		KeyIGST,
		KeyCGST,
		KeySGST,
		KeyCess,
		KeyRate,
		KeyPlaceOfSupply,
		KeyNoteType,
		KeyNoteValue,
		KeyReturnPeriod,
		KeyTotalTax,
		KeyITCIGST,
		KeyITCCGST,
		KeyITCSGST,
	}
}
