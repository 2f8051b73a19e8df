package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

// End-to-end over a real MySQL + Redis: a discounted SKU with a flat free
// issue rule is ordered, the order stores server-resolved pricing with the
// bonus line, and the invoice derived from it follows the status lifecycle.
func TestPurchaseOrderPricingAndInvoiceLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "distribution_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	// Writes record the acting user from context.
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	ctx = utils.SetUsernameInContext(ctx, "test@local")

	// Geography: zone -> region -> territory.
	zone, err := models.CreateZone(ctx, &models.NewZone{Name: "North", Code: "N"})
	if err != nil {
		t.Fatalf("CreateZone: %v", err)
	}
	region, err := models.CreateRegion(ctx, &models.NewRegion{Name: "Upper North", Code: "UN", ZoneId: zone.ID})
	if err != nil {
		t.Fatalf("CreateRegion: %v", err)
	}
	territory, err := models.CreateTerritory(ctx, &models.NewTerritory{Name: "Township One", Code: "T-01", RegionId: region.ID})
	if err != nil {
		t.Fatalf("CreateTerritory: %v", err)
	}

	distributor, err := models.CreateUser(ctx, &models.NewUser{
		Name:        "Northern Distributor",
		Username:    "north-dist",
		Password:    "secret123",
		Role:        models.UserRoleDistributor,
		TerritoryId: &territory.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	skuA, err := models.CreateSku(ctx, &models.NewSku{
		SkuCode:          "SKU-A",
		SkuName:          "Biscuit Carton",
		Mrp:              decimal.NewFromInt(120),
		DistributorPrice: decimal.NewFromInt(100),
		WeightVolume:     decimal.NewFromInt(5),
		WeightUnit:       "kg",
	})
	if err != nil {
		t.Fatalf("CreateSku A: %v", err)
	}
	skuB, err := models.CreateSku(ctx, &models.NewSku{
		SkuCode:          "SKU-B",
		SkuName:          "Snack Pack",
		Mrp:              decimal.NewFromInt(60),
		DistributorPrice: decimal.NewFromInt(50),
		WeightVolume:     decimal.NewFromInt(1),
		WeightUnit:       "kg",
	})
	if err != nil {
		t.Fatalf("CreateSku B: %v", err)
	}

	if _, err := models.CreateDiscount(ctx, &models.NewDiscount{
		LabelName:  "June trade discount",
		SkuId:      skuA.ID,
		Percentage: decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("CreateDiscount: %v", err)
	}

	// buy 5 of A, get 1 B free (flat, no multiples)
	if _, err := models.CreateFreeIssue(ctx, &models.NewFreeIssue{
		LabelName:     "Buy 5 A get 1 B",
		FreeIssueType: models.FreeIssueTypeFlat,
		SkuId:         skuA.ID,
		FreeSkuId:     skuB.ID,
		PurchaseQty:   5,
		FreeQty:       1,
	}); err != nil {
		t.Fatalf("CreateFreeIssue: %v", err)
	}

	// Bad rules never reach the tables.
	if _, err := models.CreateDiscount(ctx, &models.NewDiscount{
		LabelName:  "too steep",
		SkuId:      skuB.ID,
		Percentage: decimal.NewFromInt(101),
	}); !errors.Is(err, models.ErrDiscountOutOfRange) {
		t.Fatalf("discount above 100%%: err = %v, want ErrDiscountOutOfRange", err)
	}
	if _, err := models.CreateDiscount(ctx, &models.NewDiscount{
		LabelName:  "second rule for A",
		SkuId:      skuA.ID,
		Percentage: decimal.NewFromInt(5),
	}); !errors.Is(err, models.ErrDiscountExists) {
		t.Fatalf("duplicate discount: err = %v, want ErrDiscountExists", err)
	}
	if _, err := models.CreateFreeIssue(ctx, &models.NewFreeIssue{
		LabelName:     "second promo for A",
		FreeIssueType: models.FreeIssueTypeMultiple,
		SkuId:         skuA.ID,
		FreeSkuId:     skuB.ID,
		PurchaseQty:   10,
		FreeQty:       2,
	}); !errors.Is(err, models.ErrFreeIssueExists) {
		t.Fatalf("duplicate free issue: err = %v, want ErrFreeIssueExists", err)
	}
	if _, err := models.CreateFreeIssue(ctx, &models.NewFreeIssue{
		LabelName:     "negative threshold",
		FreeIssueType: models.FreeIssueTypeFlat,
		SkuId:         skuB.ID,
		FreeSkuId:     skuA.ID,
		PurchaseQty:   -1,
		FreeQty:       1,
	}); !errors.Is(err, models.ErrInvalidFreeIssueQty) {
		t.Fatalf("negative purchase qty: err = %v, want ErrInvalidFreeIssueQty", err)
	}

	// Price resolver agrees with the rules before any order exists.
	price, err := models.ResolveSkuPrice(ctx, skuA.ID)
	if err != nil {
		t.Fatalf("ResolveSkuPrice: %v", err)
	}
	if !price.DiscountedPrice.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("resolved discounted price = %s, want 90", price.DiscountedPrice)
	}

	// A stale client price must reject the whole order.
	stale := decimal.NewFromInt(89)
	_, err = models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		Date:        "2024-06-01",
		UserId:      distributor.ID,
		TerritoryId: territory.ID,
		Items: []models.NewPoItem{
			{SkuId: skuA.ID, Quantity: 6, ExpectedPrice: &stale},
		},
	})
	if !errors.Is(err, models.ErrPriceMismatch) {
		t.Fatalf("stale price: got err %v, want ErrPriceMismatch", err)
	}

	order, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		Date:        "2024-06-01",
		UserId:      distributor.ID,
		TerritoryId: territory.ID,
		Remark:      "first order",
		Items: []models.NewPoItem{
			{SkuId: skuA.ID, Quantity: 6},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	if order.PoNumber != "0000000001" {
		t.Fatalf("po number = %q, want 0000000001", order.PoNumber)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("order total = %s, want 540 (free line excluded)", order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order has %d items, want entered line + free line", len(order.Items))
	}
	entered, free := order.Items[0], order.Items[1]
	if entered.IsFreeIssue || entered.Quantity != 6 || !entered.DiscountedPrice.Equal(decimal.NewFromInt(90)) || !entered.TotalPrice.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("entered line wrong: %+v", entered)
	}
	if !free.IsFreeIssue || free.SkuId != skuB.ID || free.Quantity != 1 || !free.UnitPrice.IsZero() || !free.TotalPrice.IsZero() {
		t.Fatalf("free line wrong: %+v", free)
	}

	// Order shows up as billable until an invoice covers it.
	uninvoiced, err := models.GetUninvoicedPurchaseOrders(ctx)
	if err != nil {
		t.Fatalf("GetUninvoicedPurchaseOrders: %v", err)
	}
	if len(uninvoiced) != 1 || uninvoiced[0].ID != order.ID {
		t.Fatalf("uninvoiced = %d orders, want just the new one", len(uninvoiced))
	}

	invoice, err := models.CreateInvoice(ctx, &models.NewInvoice{
		PoId: order.ID,
		Date: "2024-06-01",
		Items: []models.NewInvoiceItem{
			{PoItemId: entered.ID, Quantity: 6},
			{PoItemId: free.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if invoice.InvoiceNumber != "INV-20240601-0001" {
		t.Fatalf("invoice number = %q, want INV-20240601-0001", invoice.InvoiceNumber)
	}
	if !invoice.TotalAmount.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("invoice total = %s, want 540", invoice.TotalAmount)
	}
	if invoice.Status != models.InvoiceStatusPending {
		t.Fatalf("new invoice status = %s, want pending", invoice.Status)
	}

	uninvoiced, err = models.GetUninvoicedPurchaseOrders(ctx)
	if err != nil {
		t.Fatalf("GetUninvoicedPurchaseOrders after invoice: %v", err)
	}
	if len(uninvoiced) != 0 {
		t.Fatalf("order still listed as uninvoiced after billing")
	}

	paid, err := models.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus pending->paid: %v", err)
	}
	if paid.Status != models.InvoiceStatusPaid {
		t.Fatalf("status after payment = %s, want paid", paid.Status)
	}

	_, err = models.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusCancelled)
	if !errors.Is(err, models.ErrInvalidStatusTransition) {
		t.Fatalf("paid->cancelled: got err %v, want ErrInvalidStatusTransition", err)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("distribution-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("distribution-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=distribution_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
