package classify

import "github.com/bankbook-dev/bankbook/internal/model"

// Rule maps description keywords to a target account for one direction.
type Rule struct {
	Type        model.TransactionType
	Keywords    []string // lower-case
	AccountCode string
	AccountName string
}

// DefaultRules is scanned top to bottom and the first rule with a matching
// keyword wins, so a short keyword listed early shadows longer ones listed
// later (e.g. "kt" claims "KTX" rows for 통신비).
var DefaultRules = []Rule{
	{Type: model.TypeIncome, Keywords: []string{"보조금", "지원금", "교부금"}, AccountCode: "402", AccountName: "보조금수입"},
	{Type: model.TypeIncome, Keywords: []string{"후원", "기부", "cms"}, AccountCode: "401", AccountName: "후원금수입"},
	{Type: model.TypeIncome, Keywords: []string{"이자", "결산"}, AccountCode: "404", AccountName: "이자수입"},
	{Type: model.TypeIncome, Keywords: []string{"참가비", "수강료", "판매"}, AccountCode: "403", AccountName: "사업수입"},

	{Type: model.TypeExpense, Keywords: []string{"국민연금", "건강보험", "고용보험", "산재보험", "4대보험"}, AccountCode: "503", AccountName: "사회보험료"},
	{Type: model.TypeExpense, Keywords: []string{"급여", "월급", "상여"}, AccountCode: "501", AccountName: "급여"},
	{Type: model.TypeExpense, Keywords: []string{"퇴직연금", "퇴직적립"}, AccountCode: "502", AccountName: "퇴직적립금"},
	{Type: model.TypeExpense, Keywords: []string{"월세", "임대료", "관리비"}, AccountCode: "504", AccountName: "임차료"},
	{Type: model.TypeExpense, Keywords: []string{"한국전력", "한전", "전기요금", "도시가스", "수도요금"}, AccountCode: "505", AccountName: "수도광열비"},
	{Type: model.TypeExpense, Keywords: []string{"kt", "skt", "lgu+", "유플러스", "통신"}, AccountCode: "506", AccountName: "통신비"},
	{Type: model.TypeExpense, Keywords: []string{"택시", "ktx", "코레일", "주유", "톨게이트", "교통"}, AccountCode: "507", AccountName: "여비교통비"},
	{Type: model.TypeExpense, Keywords: []string{"식당", "카페", "스타벅스", "편의점", "식대"}, AccountCode: "508", AccountName: "복리후생비"},
	{Type: model.TypeExpense, Keywords: []string{"다이소", "쿠팡", "문구", "소모품"}, AccountCode: "509", AccountName: "소모품비"},
	{Type: model.TypeExpense, Keywords: []string{"수수료"}, AccountCode: "510", AccountName: "지급수수료"},
	{Type: model.TypeExpense, Keywords: []string{"국세", "지방세", "원천세", "부가세", "세금"}, AccountCode: "511", AccountName: "세금과공과"},
}
