package accounts

import "github.com/bankbook-dev/bankbook/internal/model"

// Well-known codes of the fallback accounts used when nothing else matches.
const (
	DefaultIncomeCode  = "499"
	DefaultExpenseCode = "599"
)

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "nonprofit":
		return nonprofitChart()
	default:
		return nonprofitChart()
	}
}

func nonprofitChart() []model.Account {
	return []model.Account{
		{ID: "acc_101", Code: "101", Name: "보통예금", Type: model.AccountTypeAsset, Description: "운영 계좌"},
		{ID: "acc_201", Code: "201", Name: "예수금", Type: model.AccountTypeLiability, Description: "원천징수 예수금"},
		{ID: "acc_301", Code: "301", Name: "기본금", Type: model.AccountTypeEquity},
		{ID: "acc_401", Code: "401", Name: "후원금수입", Type: model.AccountTypeRevenue, Description: "정기/일시 후원"},
		{ID: "acc_402", Code: "402", Name: "보조금수입", Type: model.AccountTypeRevenue, Description: "정부 및 지자체 보조금"},
		{ID: "acc_403", Code: "403", Name: "사업수입", Type: model.AccountTypeRevenue, Description: "프로그램 참가비 등"},
		{ID: "acc_404", Code: "404", Name: "이자수입", Type: model.AccountTypeRevenue, Description: "예금 이자"},
		{ID: "acc_499", Code: DefaultIncomeCode, Name: "기타수입", Type: model.AccountTypeRevenue},
		{ID: "acc_501", Code: "501", Name: "급여", Type: model.AccountTypeExpense, Description: "직원 급여 및 상여"},
		{ID: "acc_502", Code: "502", Name: "퇴직적립금", Type: model.AccountTypeExpense},
		{ID: "acc_503", Code: "503", Name: "사회보험료", Type: model.AccountTypeExpense, Description: "국민연금 건강보험 고용보험 산재보험"},
		{ID: "acc_504", Code: "504", Name: "임차료", Type: model.AccountTypeExpense},
		{ID: "acc_505", Code: "505", Name: "수도광열비", Type: model.AccountTypeExpense},
		{ID: "acc_506", Code: "506", Name: "통신비", Type: model.AccountTypeExpense},
		{ID: "acc_507", Code: "507", Name: "여비교통비", Type: model.AccountTypeExpense},
		{ID: "acc_508", Code: "508", Name: "복리후생비", Type: model.AccountTypeExpense},
		{ID: "acc_509", Code: "509", Name: "소모품비", Type: model.AccountTypeExpense},
		{ID: "acc_510", Code: "510", Name: "지급수수료", Type: model.AccountTypeExpense},
		{ID: "acc_511", Code: "511", Name: "세금과공과", Type: model.AccountTypeExpense},
		{ID: "acc_599", Code: DefaultExpenseCode, Name: "기타비용", Type: model.AccountTypeExpense},
	}
}
