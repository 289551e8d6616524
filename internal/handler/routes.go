package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, invoiceHandler *InvoiceHandler, payrollHandler *PayrollHandler, vacationHandler *VacationHandler, dashboardHandler *DashboardHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Invoice ledger routes
	invoices := api.Group("/invoices")
	invoices.POST("", invoiceHandler.CreateInvoice)
	invoices.GET("", invoiceHandler.ListInvoices)
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.POST("/:id/payments", invoiceHandler.RegisterPayment)
	invoices.POST("/mark-paid-batch", invoiceHandler.MarkPaidBatch)
	invoices.PATCH("/:id/overdue", invoiceHandler.MarkOverdue)

	// Employee-scoped routes
	employees := api.Group("/employees")
	employees.GET("/:id/payroll/:year/:month", payrollHandler.ComputePayroll)
	employees.GET("/:id/vacation-entitlement", vacationHandler.GetEntitlement)
	employees.POST("/:id/vacations", vacationHandler.ScheduleVacation)

	// Payroll synchronization routes
	payroll := api.Group("/payroll")
	payroll.POST("/generate-batch", payrollHandler.GenerateBatch)
	payroll.GET("/staleness", payrollHandler.CheckStaleness)
	payroll.POST("/invoices/:id/resync", payrollHandler.Resync)

	// Vacation routes
	vacations := api.Group("/vacations")
	vacations.POST("/:id/cancel", vacationHandler.CancelVacation)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/cashflow/:year/:month", dashboardHandler.GetCashflow)
}
