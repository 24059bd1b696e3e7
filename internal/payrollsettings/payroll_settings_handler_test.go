package payrollsettings_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/payrollsettings"
	payrollsettingserrors "go-payroll/internal/payrollsettings/errors"
	payrollsettingsMock "go-payroll/internal/payrollsettings/mock"
	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestPayrollSettingsHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payrollsettingsMock.NewMockService(ctrl)

		companyID := uuid.New().String()
		actorID := uuid.New().String()

		svc.EXPECT().
			Update(gomock.Any(), companyID, actorID, gomock.Any()).
			DoAndReturn(func(_ any, _ string, _ string, req payrollsettings.UpdateSettingsRequest) (payrollsettings.SettingsResponse, error) {
				assert.Equal(t, int64(2), req.Version)
				if assert.NotNil(t, req.LateRatePerDay) {
					assert.Equal(t, "30", req.LateRatePerDay.String())
				}
				return payrollsettings.SettingsResponse{CompanyID: companyID, Version: 3}, nil
			})

		h := payrollsettings.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/payroll-settings", strings.NewReader(`{"version":2,"late_rate_per_day":"30"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)

		h.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"version":3`)
	})

	t.Run("binding error uses field name", func(t *testing.T) {
		apperror.Init()
		ctrl := gomock.NewController(t)
		svc := payrollsettingsMock.NewMockService(ctrl)

		h := payrollsettings.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/payroll-settings", strings.NewReader(`{"version":1,"rounding_places":9}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Rounding Places is invalid")
	})

	t.Run("version conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payrollsettingsMock.NewMockService(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(payrollsettings.SettingsResponse{}, payrollsettingserrors.ErrVersionConflict)

		h := payrollsettings.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/payroll-settings", strings.NewReader(`{"version":1}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("company_id", uuid.New().String())

		h.Update(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
	})
}

func TestPayrollSettingsHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := payrollsettingsMock.NewMockService(ctrl)

	companyID := uuid.New().String()
	svc.EXPECT().
		Get(gomock.Any(), companyID).
		Return(payrollsettings.SettingsResponse{CompanyID: companyID, IsDefault: true}, nil)

	h := payrollsettings.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/payroll-settings", nil)
	c.Set("company_id", companyID)

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)
}
