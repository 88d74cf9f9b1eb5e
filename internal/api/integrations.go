package api

import (
	"math/rand"
	"net/http"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/service"
	"support-ops-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// IntegrationHandler exposes mock CRM and ERP endpoints. They simulate the
// latency and occasional failures of the real integrations so the dashboard
// has realistic data to render, and every call is recorded as an API metric.
type IntegrationHandler struct {
	metrics *service.MetricService
	logs    *service.LogService
	logger  *logger.Logger
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(metrics *service.MetricService, logs *service.LogService, logger *logger.Logger) *IntegrationHandler {
	return &IntegrationHandler{metrics: metrics, logs: logs, logger: logger}
}

// simulate sleeps for a jittered latency and rolls a small failure chance.
// Returns the elapsed milliseconds and the status code to report.
func (h *IntegrationHandler) simulate(c *gin.Context, system, endpoint string) (int, int) {
	start := time.Now()
	latency := time.Duration(50+rand.Intn(400)) * time.Millisecond
	time.Sleep(latency)

	status := http.StatusOK
	if rand.Float64() < 0.05 {
		status = http.StatusBadGateway
	}

	elapsed := int(time.Since(start).Milliseconds())
	h.metrics.Record(c.Request.Context(), models.APIMetric{
		Endpoint:     endpoint,
		Method:       c.Request.Method,
		System:       system,
		ResponseTime: elapsed,
		StatusCode:   status,
	})
	return elapsed, status
}

func (h *IntegrationHandler) fail(c *gin.Context, system, action string, elapsed, status int) {
	h.logs.Record(c.Request.Context(), system, action, "error",
		system+" request failed", map[string]any{"responseTime": elapsed})
	c.JSON(status, gin.H{"error": "upstream system temporarily unavailable"})
}

// CRMCustomers returns a mock page of CRM customer accounts.
func (h *IntegrationHandler) CRMCustomers(c *gin.Context) {
	elapsed, status := h.simulate(c, models.SystemCRM, "/integrations/crm/customers")
	if status != http.StatusOK {
		h.fail(c, models.SystemCRM, "fetch_customers", elapsed, status)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": []gin.H{
			{"id": "CRM-1001", "name": "Acme Corp", "owner": "Sarah Chen", "stage": "active"},
			{"id": "CRM-1002", "name": "Globex Inc", "owner": "Mike Torres", "stage": "onboarding"},
			{"id": "CRM-1003", "name": "Initech LLC", "owner": "Sarah Chen", "stage": "renewal"},
		},
		"responseTime": elapsed,
	})
}

// CRMLeads returns a mock page of CRM leads.
func (h *IntegrationHandler) CRMLeads(c *gin.Context) {
	elapsed, status := h.simulate(c, models.SystemCRM, "/integrations/crm/leads")
	if status != http.StatusOK {
		h.fail(c, models.SystemCRM, "fetch_leads", elapsed, status)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": []gin.H{
			{"id": "LEAD-2201", "company": "Umbrella Co", "score": 82, "source": "webinar"},
			{"id": "LEAD-2202", "company": "Stark Industries", "score": 67, "source": "referral"},
			{"id": "LEAD-2203", "company": "Wayne Enterprises", "score": 91, "source": "inbound"},
		},
		"responseTime": elapsed,
	})
}

// ERPOrders returns a mock page of ERP orders.
func (h *IntegrationHandler) ERPOrders(c *gin.Context) {
	elapsed, status := h.simulate(c, models.SystemERP, "/integrations/erp/orders")
	if status != http.StatusOK {
		h.fail(c, models.SystemERP, "fetch_orders", elapsed, status)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": []gin.H{
			{"id": "ORD-58291", "customer": "Acme Corp", "total": 12499.00, "status": "fulfilled"},
			{"id": "ORD-58292", "customer": "Globex Inc", "total": 3150.50, "status": "processing"},
			{"id": "ORD-58293", "customer": "Initech LLC", "total": 890.00, "status": "pending"},
		},
		"responseTime": elapsed,
	})
}

// ERPInventory returns a mock ERP inventory snapshot.
func (h *IntegrationHandler) ERPInventory(c *gin.Context) {
	elapsed, status := h.simulate(c, models.SystemERP, "/integrations/erp/inventory")
	if status != http.StatusOK {
		h.fail(c, models.SystemERP, "fetch_inventory", elapsed, status)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": []gin.H{
			{"sku": "SKU-4410", "name": "Connector License", "onHand": 240, "reserved": 35},
			{"sku": "SKU-4411", "name": "Sync Agent Appliance", "onHand": 18, "reserved": 4},
			{"sku": "SKU-4412", "name": "Premium Support Block", "onHand": 560, "reserved": 112},
		},
		"responseTime": elapsed,
	})
}

// SyncStatus reports a mock sync health snapshot for both systems.
func (h *IntegrationHandler) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"crm": gin.H{"connected": true, "lastSync": time.Now().Add(-5 * time.Minute)},
		"erp": gin.H{"connected": true, "lastSync": time.Now().Add(-12 * time.Minute)},
	})
}
