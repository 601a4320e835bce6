package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/internal/repositories/memory"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/config"
	"pharmacy-system/pkg/customvalidator"
	"pharmacy-system/pkg/eventbus"
	"pharmacy-system/pkg/service"
	"pharmacy-system/pkg/utils"
)

type RouterTestSuite struct {
	suite.Suite
	Echo        *echo.Echo
	Store       *memory.Store
	ClientToken string
	AdminToken  string
}

func (s *RouterTestSuite) SetupTest() {
	nopLogger := zap.NewNop()
	ctx := context.Background()

	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	store := memory.NewStore()
	clk := clock.NewSystem()
	cache := repositories.NewMemoryCacheRepository(clk)
	bus := eventbus.New(nopLogger)
	jwtSvc := service.NewJWTService("router-test-secret", time.Hour, nopLogger)

	reservationService := services.NewReservationService(store, store, store,
		services.NewLocker(cache, 5*time.Second, nopLogger), bus, clk, nopLogger)
	saleService := services.NewSaleService(store, clk, nopLogger)

	InitRouter(e, Dependencies{
		Backend:            "memory",
		JWT:                jwtSvc,
		AuthService:        services.NewAuthService(store, cache, jwtSvc, config.AuthConfig{MaxLoginAttempts: 5, LockoutDuration: time.Minute}, clk, nopLogger),
		ProductService:     services.NewProductService(store, clk, nopLogger),
		BranchService:      services.NewBranchService(store, nopLogger),
		ReservationService: reservationService,
		SaleService:        saleService,
		ReportService:      services.NewReportService(reservationService, saleService, store, store, store, store, clk, nopLogger),
	}, &Loggers{Main: nopLogger, Auth: nopLogger, Reservation: nopLogger, Catalog: nopLogger, Sale: nopLogger})

	_, err := store.CreateProduct(ctx, entities.Product{
		ID: "3", Name: "Paracetamol 500mg", Description: "Paracetamol. Analgésico.",
		Price: "25.50", Stock: "10", PrescriptionFlag: "No",
	})
	s.Require().NoError(err)
	_, err = store.CreateBranch(ctx, entities.Branch{ID: "1", Name: "Centro", Address: "Av. Juárez 1", Status: entities.BranchStatusActive})
	s.Require().NoError(err)

	hash, err := utils.HashPassword("cliente123")
	s.Require().NoError(err)
	_, err = store.CreateUser(ctx, entities.User{Username: "ana", Password: hash, Name: "Ana Ruiz", Type: entities.UserTypeClient})
	s.Require().NoError(err)
	hash, err = utils.HashPassword("admin123")
	s.Require().NoError(err)
	_, err = store.CreateUser(ctx, entities.User{Username: "admin", Password: hash, Name: "Admin", Type: entities.UserTypeAdmin})
	s.Require().NoError(err)

	s.Echo = e
	s.Store = store
	s.ClientToken = s.login("ana", "cliente123", "client")
	s.AdminToken = s.login("admin", "admin123", "admin")
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (s *RouterTestSuite) login(username, password, userType string) string {
	rec, res := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": password, "user_type": userType,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	return res["body"].(map[string]interface{})["access_token"].(string)
}

func (s *RouterTestSuite) TestHealthIsPublic() {
	rec, res := s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, res["status"])
}

func (s *RouterTestSuite) TestProductsRequireAuth() {
	rec, res := s.do(http.MethodGet, "/api/products", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(false, res["status"])
}

func (s *RouterTestSuite) TestLoginWrongPassword() {
	rec, _ := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ana", "password": "nope", "user_type": "client",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterTestSuite) TestReservationFlow() {
	rec, res := s.do(http.MethodPost, "/api/reservation", s.ClientToken, map[string]interface{}{
		"product_id": "3", "quantity": 2, "branch_id": "1",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	created := res["body"].(map[string]interface{})
	id := created["id"].(string)
	s.Equal("pendiente", created["status"])
	s.Equal("active", created["display_status"])

	rec, res = s.do(http.MethodGet, "/api/reservations/my", s.ClientToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(res["body"].([]interface{}), 1)

	rec, _ = s.do(http.MethodPost, "/api/reservation/"+id+"/confirm", s.ClientToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, res = s.do(http.MethodPost, "/api/reservation/"+id+"/confirm", s.AdminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("collected", res["body"].(map[string]interface{})["display_status"])

	rec, _ = s.do(http.MethodPost, "/api/reservation/"+id+"/cancel", s.ClientToken, nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/reservation/RES-100/cancel", s.ClientToken, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterTestSuite) TestReservationValidation() {
	rec, _ := s.do(http.MethodPost, "/api/reservation", s.ClientToken, map[string]interface{}{
		"product_id": "3", "quantity": 0, "branch_id": "1",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/reservation", s.ClientToken, map[string]interface{}{
		"product_id": "3", "quantity": 50, "branch_id": "1",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestAdminOnlyRoutes() {
	rec, _ := s.do(http.MethodGet, "/api/sales", s.ClientToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/sales", s.AdminToken, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, res := s.do(http.MethodPost, "/api/branch", s.AdminToken, map[string]interface{}{
		"name": "Norte", "address": "Calle 5", "status": "suspended",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Equal("Suspendido", res["body"].(map[string]interface{})["status"])

	rec, res = s.do(http.MethodGet, "/api/branches/active", s.ClientToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(res["body"].([]interface{}), 1)
}

func (s *RouterTestSuite) TestLogoutRevokesToken() {
	rec, _ := s.do(http.MethodPost, "/api/auth/logout", s.ClientToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/auth/me", s.ClientToken, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterTestSuite) TestReservationsExportXLSX() {
	rec, _ := s.do(http.MethodGet, "/api/reports/reservations?format=xlsx", s.AdminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentType), "spreadsheetml")
	s.NotZero(rec.Body.Len())
}
