package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/service"
	"github.com/amparo/amparo-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func newVacationHandlerFixture() (*testutil.MockEmployeeRepository, *testutil.MockVacationRepository, *VacationHandler) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := service.NewVacationService(employeeRepo, vacationRepo)
	return employeeRepo, vacationRepo, NewVacationHandler(vacationService)
}

func TestVacationHandler_ScheduleVacation_Success(t *testing.T) {
	employeeRepo, vacationRepo, handler := newVacationHandlerFixture()
	e := echo.New()

	admission := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	employeeRepo.Employees[1] = &domain.Employee{ID: 1, Name: "Ana", AdmissionDate: &admission, Active: true}

	_, rec, c := postJSON(e, "/api/v1/employees/1/vacations", ScheduleVacationRequest{
		PeriodStart: "2021-02-01",
		PeriodEnd:   "2021-02-20",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.ScheduleVacation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp VacationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "scheduled" {
		t.Errorf("Expected scheduled, got %s", resp.Status)
	}
	if resp.ReferenceCycleStart != "2020-01-01" {
		t.Errorf("Expected reference cycle 2020-01-01, got %s", resp.ReferenceCycleStart)
	}
	if len(vacationRepo.Incidents) != 1 {
		t.Errorf("Expected absence incident written, got %d", len(vacationRepo.Incidents))
	}
}

func TestVacationHandler_ScheduleVacation_ConfirmationRequired(t *testing.T) {
	employeeRepo, vacationRepo, handler := newVacationHandlerFixture()
	e := echo.New()

	admission := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	employeeRepo.Employees[1] = &domain.Employee{ID: 1, Name: "Ana", AdmissionDate: &admission, Active: true}

	// 40 days against a 30-day entitlement: 422 until confirmed.
	_, rec, c := postJSON(e, "/api/v1/employees/1/vacations", ScheduleVacationRequest{
		PeriodStart: "2021-02-01",
		PeriodEnd:   "2021-03-12",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.ScheduleVacation(c); err != nil {
		t.Fatalf("Expected handled error, got %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(vacationRepo.Records) != 0 {
		t.Error("Expected nothing written without confirmation")
	}

	// Same request with confirm succeeds.
	_, rec, c = postJSON(e, "/api/v1/employees/1/vacations", ScheduleVacationRequest{
		PeriodStart: "2021-02-01",
		PeriodEnd:   "2021-03-12",
		Confirm:     true,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.ScheduleVacation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 with confirm, got %d", rec.Code)
	}
}

func TestVacationHandler_GetEntitlement_NoEntitlement(t *testing.T) {
	employeeRepo, _, handler := newVacationHandlerFixture()
	e := echo.New()

	employeeRepo.Employees[1] = &domain.Employee{ID: 1, Name: "Ana", Active: false}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/1/vacation-entitlement", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.GetEntitlement(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "null\n" {
		t.Errorf("Expected null body for absent entitlement, got %q", body)
	}
}
