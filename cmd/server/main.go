package main

import "expensetracker/internal/app"

// @title           Expense Tracker API
// @version         1.0
// @description     Personal finance tracker: accounts, expenses, incomes and reports.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
