package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salescrm/internal/database"
	"salescrm/internal/domain"
	"salescrm/internal/domain/conversion"
	"salescrm/internal/domain/lead"
	"salescrm/internal/domain/points"
	"salescrm/internal/middleware"
	jwtsvc "salescrm/internal/pkg/jwt"
	"salescrm/internal/repository"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service

	tenant   domain.Tenant
	agent    domain.Employee
	manager  domain.Employee
	manager2 domain.Employee
	campaign domain.Campaign
	product  domain.Product
	convo    domain.Conversation

	agentToken    string
	managerToken  string
	manager2Token string
	adminToken    string
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")
	db.Logger = logger.Default.LogMode(logger.Silent)

	require.NoError(t, db.AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Employee{},
		&domain.Campaign{},
		&domain.Product{},
		&domain.Category{},
		&domain.Interest{},
		&domain.Conversation{},
		&domain.Client{},
		&lead.Lead{},
		&lead.Assignment{},
		&conversion.ClientApprovalRequest{},
	))

	s := &E2ETestSuite{db: db}
	s.jwt = jwtsvc.New("e2e-test-secret", time.Hour)
	s.seed(t)

	employeeRepo := repository.NewEmployeeRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	productRepo := repository.NewProductRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	clientRepo := repository.NewClientRepository(db)
	leadRepo := lead.NewRepository(db)

	pointsService := points.NewService(db)
	pointsHandler := points.NewHandler(pointsService)

	leadService := lead.NewService(db, leadRepo, employeeRepo, campaignRepo, productRepo, lookupRepo, conversationRepo, pointsService)
	leadHandler := lead.NewHandler(leadService)

	conversionService := conversion.NewService(db, leadRepo, productRepo, conversationRepo, clientRepo, pointsService)
	conversionHandler := conversion.NewHandler(conversionService)

	r := gin.New()
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.Auth(s.jwt))
	protected.Use(middleware.SalesOnly())
	lead.RegisterRoutes(protected, leadHandler)
	conversion.RegisterRoutes(protected, conversionHandler)
	points.RegisterRoutes(protected, pointsHandler)

	s.router = r
	return s
}

func (s *E2ETestSuite) seed(t *testing.T) {
	t.Helper()
	s.tenant = domain.Tenant{Name: "Acme Sales"}
	require.NoError(t, s.db.Create(&s.tenant).Error)

	users := []struct {
		name string
		role domain.UserRole
		out  *domain.Employee
	}{
		{"Aidos", domain.RoleAgent, &s.agent},
		{"Maria", domain.RoleLeadManager, &s.manager},
		{"Daniyar", domain.RoleLeadManager, &s.manager2},
	}
	for _, u := range users {
		user := domain.User{TenantID: s.tenant.ID, Name: u.name, Email: u.name + "@acme.test", Role: u.role}
		require.NoError(t, s.db.Create(&user).Error)
		*u.out = domain.Employee{TenantID: s.tenant.ID, UserID: user.ID, Name: u.name, Role: u.role}
		require.NoError(t, s.db.Create(u.out).Error)
	}

	admin := domain.User{TenantID: s.tenant.ID, Name: "Admin", Email: "admin@acme.test", Role: domain.RoleAdmin}
	require.NoError(t, s.db.Create(&admin).Error)

	now := time.Now()
	s.campaign = domain.Campaign{TenantID: s.tenant.ID, Name: "Autumn Promo", StartDate: now.Add(-time.Hour), EndDate: now.Add(30 * 24 * time.Hour)}
	require.NoError(t, s.db.Create(&s.campaign).Error)

	s.product = domain.Product{
		TenantID:       s.tenant.ID,
		Name:           "CRM Pro License",
		PurchasePrice:  decimal.NewFromInt(200),
		SalePrice:      decimal.NewFromInt(350),
		LeadPoints:     decimal.NewFromInt(10),
		CustomerPoints: decimal.NewFromInt(5),
	}
	require.NoError(t, s.db.Create(&s.product).Error)

	s.convo = domain.Conversation{
		TenantID:       s.tenant.ID,
		Platform:       "telegram",
		PlatformUserID: "tg-42",
		CustomerName:   "Inbox Customer",
		CustomerEmail:  "inbox@example.com",
	}
	require.NoError(t, s.db.Create(&s.convo).Error)

	var err error
	s.agentToken, err = s.jwt.GenerateToken(s.agent.UserID, s.tenant.ID, s.agent.ID, string(domain.RoleAgent))
	require.NoError(t, err)
	s.managerToken, err = s.jwt.GenerateToken(s.manager.UserID, s.tenant.ID, s.manager.ID, string(domain.RoleLeadManager))
	require.NoError(t, err)
	s.manager2Token, err = s.jwt.GenerateToken(s.manager2.UserID, s.tenant.ID, s.manager2.ID, string(domain.RoleLeadManager))
	require.NoError(t, err)
	s.adminToken, err = s.jwt.GenerateToken(admin.ID, s.tenant.ID, 0, string(domain.RoleAdmin))
	require.NoError(t, err)
}

func (s *E2ETestSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, &resp
}

func (s *E2ETestSuite) balances(t *testing.T, employeeID int64, token string) (string, string) {
	t.Helper()
	w, resp := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/employees/%d/points", employeeID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return resp.Data["reserve_points"].(string), resp.Data["main_points"].(string)
}

func TestLeadLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	// agent creates a lead referencing the incentive product
	w, resp := s.request(t, http.MethodPost, "/api/v1/leads", s.agentToken, gin.H{
		"title":         "Enterprise deal",
		"customer_name": "Big Co",
		"product_id":    s.product.ID,
		"campaign_id":   s.campaign.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", resp)
	leadID := int64(resp.Data["id"].(float64))
	assert.Equal(t, "new", resp.Data["status"])
	assert.Nil(t, resp.Data["monitoring_owner_id"])

	// creation credited the agent's reserve
	reserve, main := s.balances(t, s.agent.ID, s.agentToken)
	assert.Equal(t, "10", reserve)
	assert.Equal(t, "0", main)

	// first status change by a manager claims the monitoring lock
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/leads/%d/status", leadID), s.managerToken, gin.H{"status": "negotiation"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(s.manager.ID), resp.Data["monitoring_owner_id"])

	// a second manager is locked out
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/leads/%d/status", leadID), s.manager2Token, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "MONITORING_HELD", resp.Error.Code)

	// an admin bypasses the lock without stealing it
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/leads/%d/status", leadID), s.adminToken, gin.H{"status": "contacted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(s.manager.ID), resp.Data["monitoring_owner_id"])

	// winning the lead moves the creation credit reserve -> main
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/leads/%d/status", leadID), s.managerToken, gin.H{"status": "won"})
	require.Equal(t, http.StatusOK, w.Code)

	reserve, main = s.balances(t, s.agent.ID, s.agentToken)
	assert.Equal(t, "0", reserve)
	assert.Equal(t, "10", main)

	// conversion creates the processing client and the pending approval
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), s.managerToken, gin.H{
		"email":    "bigco@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", resp)
	assert.Equal(t, "processing", resp.Data["status"])
	assert.Equal(t, "bigco@example.com", resp.Data["email"])

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/leads/%d/approval", leadID), s.managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", resp.Data["status"])
	assert.Equal(t, "5", resp.Data["customer_points"])

	// conversion credited the converting manager's reserve
	reserve, main = s.balances(t, s.manager.ID, s.managerToken)
	assert.Equal(t, "5", reserve)
	assert.Equal(t, "0", main)

	// a second conversion attempt is rejected
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), s.managerToken, gin.H{
		"email":    "again@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_CONVERTED", resp.Error.Code)
}

func TestLeadFromConversation(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/leads/from-conversation", s.agentToken, gin.H{
		"conversation_id": s.convo.ID,
		"title":           "Inbox deal",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", resp)
	assert.Equal(t, "inbox", resp.Data["source"])
	assert.Equal(t, "Inbox Customer", resp.Data["customer_name"])

	// one lead per conversation
	w, resp = s.request(t, http.MethodPost, "/api/v1/leads/from-conversation", s.agentToken, gin.H{
		"conversation_id": s.convo.ID,
		"title":           "Another",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONVERSATION_HAS_LEAD", resp.Error.Code)
}

func TestMonitoringTransfer(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/leads", s.agentToken, gin.H{
		"title":         "Deal",
		"customer_name": "Customer",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	leadID := int64(resp.Data["id"].(float64))

	// transfer before any claim
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/transfer", leadID), s.managerToken, gin.H{"new_owner_id": s.manager2.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NOT_CLAIMED", resp.Error.Code)

	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/leads/%d/status", leadID), s.managerToken, gin.H{"status": "contacted"})
	require.Equal(t, http.StatusOK, w.Code)

	// only the owner may hand over the lock
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/transfer", leadID), s.manager2Token, gin.H{"new_owner_id": s.manager2.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "NOT_MONITORING_OWNER", resp.Error.Code)

	// the agent is not a valid target
	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/transfer", leadID), s.managerToken, gin.H{"new_owner_id": s.agent.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TRANSFER_TARGET", resp.Error.Code)

	w, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/transfer", leadID), s.managerToken, gin.H{"new_owner_id": s.manager2.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(s.manager2.ID), resp.Data["monitoring_owner_id"])
	assert.NotNil(t, resp.Data["monitoring_transferred_at"])
}

func TestAssignmentEndpoints(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/leads", s.agentToken, gin.H{
		"title":         "Deal",
		"customer_name": "Customer",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	leadID := int64(resp.Data["id"].(float64))

	w, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/leads/%d/agents", leadID), s.managerToken, gin.H{
		"employee_ids": []int64{s.agent.ID, s.agent.ID, s.manager2.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&lead.Assignment{}).Where("lead_id = ?", leadID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	w, resp = s.request(t, http.MethodPut, fmt.Sprintf("/api/v1/leads/%d/agents", leadID), s.managerToken, gin.H{
		"employee_ids": []int64{9999},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", resp.Error.Code)

	w, _ = s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/leads/%d/agents/%d", leadID, s.agent.ID), s.managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, s.db.Model(&lead.Assignment{}).Where("lead_id = ?", leadID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthRequired(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodGet, "/api/v1/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	w, resp = s.request(t, http.MethodGet, "/api/v1/leads", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestCampaignWindowEnforced(t *testing.T) {
	s := setupTestSuite(t)

	expired := domain.Campaign{
		TenantID:  s.tenant.ID,
		Name:      "Spring Promo",
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, s.db.Create(&expired).Error)

	w, resp := s.request(t, http.MethodPost, "/api/v1/leads", s.agentToken, gin.H{
		"title":         "Late deal",
		"customer_name": "Customer",
		"campaign_id":   expired.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CAMPAIGN_CLOSED", resp.Error.Code)
}
