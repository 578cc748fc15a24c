package analytics_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

// End-to-end: confirmed invoice -> observations -> detector pass ->
// recommendation dedup and terminal lifecycle. Requires docker.

func TestRecommendationPass_DedupAndLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "purchases_test")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	cfg := analytics.DefaultConfig()
	now := time.Now()

	vendorA, err := models.CreateVendor(ctx, &models.NewVendor{Name: "Valley Wholesale"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	vendorB, err := models.CreateVendor(ctx, &models.NewVendor{Name: "Metro Foods"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}

	// vendor B sold cheaper once, vendor A is the current vendor at $10
	makeInvoice := func(vendorId int, daysAgo int, unitPrice float64, number string) {
		t.Helper()
		invoice, err := models.CreateInvoice(ctx, &models.NewInvoice{
			VendorId:      vendorId,
			InvoiceNumber: number,
			InvoiceDate:   now.AddDate(0, 0, -daysAgo),
			Total:         decimal.NewFromFloat(unitPrice * 5),
			Items: []*models.NewInvoiceItem{{
				ProductName: "Paper Towels 12pk",
				Quantity:    decimal.NewFromInt(5),
				UnitPrice:   decimal.NewFromFloat(unitPrice),
			}},
		})
		if err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
		if _, err := analytics.MaterializeInvoice(ctx, invoice.ID, cfg); err != nil {
			t.Fatalf("MaterializeInvoice: %v", err)
		}
	}
	makeInvoice(vendorB.ID, 40, 9.00, "B-1")
	makeInvoice(vendorA.ID, 30, 10.00, "A-1")
	makeInvoice(vendorA.ID, 15, 10.00, "A-2")
	makeInvoice(vendorA.ID, 2, 10.00, "A-3")

	// same name resolves to one product with consistent rollups
	products, err := models.GetProducts(ctx, nil, nil)
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected a single resolved product, got %d", len(products))
	}
	product := products[0]
	if product.MinPrice.GreaterThan(*product.AvgPrice) || product.AvgPrice.GreaterThan(*product.MaxPrice) {
		t.Fatalf("rollup invariant broken: min=%s avg=%s max=%s", product.MinPrice, product.AvgPrice, product.MaxPrice)
	}

	result, err := analytics.RunRecommendationPass(ctx, cfg, now)
	if err != nil {
		t.Fatalf("RunRecommendationPass: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("pass errors: %v", result.Errors)
	}

	open := models.RecommendationStatusOpen
	cheaper := models.RecommendationTypeCheaperVendor
	recs, err := models.GetRecommendations(ctx, &open, &cheaper, &product.ID, now, 0)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly one cheaper-vendor recommendation, got %d", len(recs))
	}
	if recs[0].AlternateVendorId == nil || *recs[0].AlternateVendorId != vendorB.ID {
		t.Fatalf("expected vendor %d as the cheaper alternative, got %v", vendorB.ID, recs[0].AlternateVendorId)
	}

	// a second pass on unchanged data refreshes in place, never duplicates
	if _, err := analytics.RunRecommendationPass(ctx, cfg, now); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	recs, err = models.GetRecommendations(ctx, &open, &cheaper, &product.ID, now, 0)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("dedup failed: %d open rows after re-run", len(recs))
	}

	// dismissal is terminal
	dismissed, err := models.DismissRecommendation(ctx, recs[0].ID, "owner")
	if err != nil {
		t.Fatalf("DismissRecommendation: %v", err)
	}
	if _, err := models.MarkRecommendationActedOn(ctx, dismissed.ID, "owner"); err != models.ErrRecommendationTerminal {
		t.Fatalf("expected terminal-state error, got %v", err)
	}

	// with the old row terminal, a new pass opens a fresh finding
	if _, err := analytics.RunRecommendationPass(ctx, cfg, now); err != nil {
		t.Fatalf("third pass: %v", err)
	}
	recs, err = models.GetRecommendations(ctx, &open, &cheaper, &product.ID, now, 0)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected a fresh open recommendation after dismissal, got %d", len(recs))
	}
	if recs[0].ID == dismissed.ID {
		t.Fatal("terminal recommendations must never be resurrected")
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("purchases-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=purchases_test",
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
