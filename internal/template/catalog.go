// Package template holds the known bank export layouts and picks the one that
// matches an uploaded file's header row.
package template

// Field is a canonical column of a bank export.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldDeposit     Field = "deposit"
	FieldWithdrawal  Field = "withdrawal"
	FieldBalance     Field = "balance"
)

// Fields lists every canonical field in mapping order.
var Fields = []Field{FieldDate, FieldDescription, FieldDeposit, FieldWithdrawal, FieldBalance}

// requiredFields are the fields counted during detection. Balance never is.
var requiredFields = []Field{FieldDate, FieldDescription, FieldDeposit, FieldWithdrawal}

// GenericID is the ID of the fallback template.
const GenericID = "generic"

// BankTemplate describes one bank's export layout.
type BankTemplate struct {
	ID          string
	Name        string
	Synonyms    map[Field][]string // ordered, compared after lower-case + trim
	DateFormats []string           // informational hints shown to the user
}

// catalog is ordered by priority: detection takes the first template that
// clears the threshold, so a layout sharing headers with an earlier bank must
// be listed after it. Generic is always last and is never detected directly.
var catalog = []BankTemplate{
	{
		ID:   "kb",
		Name: "KB국민은행",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일시"},
			FieldDescription: {"적요", "보낸분/받는분"},
			FieldDeposit:     {"입금액(원)", "입금액"},
			FieldWithdrawal:  {"출금액(원)", "출금액"},
			FieldBalance:     {"잔액(원)", "잔액"},
		},
		DateFormats: []string{"2006.01.02 15:04:05"},
	},
	{
		ID:   "shinhan",
		Name: "신한은행",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일자"},
			FieldDescription: {"내용", "적요"},
			FieldDeposit:     {"맡기신금액"},
			FieldWithdrawal:  {"찾으신금액"},
			FieldBalance:     {"잔액", "거래후잔액"},
		},
		DateFormats: []string{"2006-01-02"},
	},
	{
		ID:   "woori",
		Name: "우리은행",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일시"},
			FieldDescription: {"기재내용", "적요"},
			FieldDeposit:     {"맡기신금액(원)"},
			FieldWithdrawal:  {"찾으신금액(원)"},
			FieldBalance:     {"거래후 잔액(원)"},
		},
		DateFormats: []string{"2006.01.02 15:04"},
	},
	{
		ID:   "hana",
		Name: "하나은행",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일시"},
			FieldDescription: {"적요", "의뢰인/수취인"},
			FieldDeposit:     {"입금"},
			FieldWithdrawal:  {"출금"},
			FieldBalance:     {"거래후잔액"},
		},
		DateFormats: []string{"2006-01-02 15:04:05"},
	},
	{
		ID:   "nh",
		Name: "NH농협은행",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일자"},
			FieldDescription: {"거래기록사항", "거래내용"},
			FieldDeposit:     {"입금금액"},
			FieldWithdrawal:  {"출금금액"},
			FieldBalance:     {"거래후잔액"},
		},
		DateFormats: []string{"2006/01/02"},
	},
	{
		ID:   "ibk",
		Name: "IBK기업은행",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일시"},
			FieldDescription: {"거래내용", "상대계좌예금주명"},
			FieldDeposit:     {"입금", "입금액"},
			FieldWithdrawal:  {"출금", "출금액"},
			FieldBalance:     {"거래후 잔액", "잔액"},
		},
		DateFormats: []string{"2006-01-02 15:04:05"},
	},
	{
		ID:   "kakaobank",
		Name: "카카오뱅크",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일시"},
			FieldDescription: {"내용", "메모"},
			FieldDeposit:     {"받은 금액"},
			FieldWithdrawal:  {"보낸 금액"},
			FieldBalance:     {"거래 후 잔액"},
		},
		DateFormats: []string{"2006.01.02 15:04:05"},
	},
	{
		ID:   "toss",
		Name: "토스뱅크",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래 일시"},
			FieldDescription: {"적요", "거래 유형"},
			FieldDeposit:     {"입금 금액"},
			FieldWithdrawal:  {"출금 금액"},
			FieldBalance:     {"거래 후 잔액"},
		},
		DateFormats: []string{"2006.01.02 15:04:05"},
	},
	{
		ID:   GenericID,
		Name: "일반 (자동 인식)",
		Synonyms: map[Field][]string{
			FieldDate:        {"거래일자", "거래일시", "거래일", "일자", "날짜", "date", "transaction date"},
			FieldDescription: {"적요", "내용", "거래내용", "기재내용", "description", "memo"},
			FieldDeposit:     {"입금", "입금액", "맡기신금액", "deposit", "credit"},
			FieldWithdrawal:  {"출금", "출금액", "찾으신금액", "withdrawal", "debit"},
			FieldBalance:     {"잔액", "거래후잔액", "balance"},
		},
		DateFormats: []string{"2006-01-02", "20060102", "02/01/2006"},
	},
}

// Catalog returns the templates in priority order, generic last.
func Catalog() []BankTemplate {
	out := make([]BankTemplate, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the template with the given ID.
func Lookup(id string) (BankTemplate, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return BankTemplate{}, false
}

// Generic returns the fallback template.
func Generic() BankTemplate {
	t, _ := Lookup(GenericID)
	return t
}
