package models

type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type TimelinePoint struct {
	Day   string  `json:"day"` // YYYY-MM-DD
	Total float64 `json:"total"`
}
