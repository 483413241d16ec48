package webapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corebank/corebank/internal/fixtures"
	"github.com/corebank/corebank/pkg/money"
	"github.com/corebank/corebank/pkg/processor"
	"github.com/corebank/corebank/pkg/service/account"
	"github.com/corebank/corebank/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := fixtures.NewStore()
	ceiling, err := money.Parse("10000.00", 2)
	require.NoError(t, err)

	var next int64
	accounts := account.NewService(store, 2, slog.Default(),
		account.WithNumberSource(func() int64 { next++; return next }),
	)
	engine := processor.New(store, processor.Config{
		Scale:              2,
		CodePrefix:         "TXN",
		CodeMaxAttempts:    3,
		DailyAmountCeiling: ceiling,
		DailyCountCeiling:  50,
	}, slog.Default())

	return webapi.NewApp(accounts, engine)
}

func request(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp.StatusCode, parsed
}

func createAccount(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := request(t, app, "POST", "/accounts", `{"accountType":"CHECKING"}`)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	number := data["accountNumber"].(string)
	require.Len(t, number, 10)
	return number
}

func TestCreateAccountEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, body := request(t, app, "POST", "/accounts", `{"accountType":"SAVINGS"}`)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "SAVINGS", data["accountType"])
	assert.Equal(t, "ACTIVE", data["status"])
	assert.Equal(t, "0.00", data["balance"])

	status, _ = request(t, app, "POST", "/accounts", `{"accountType":"MONEY_MARKET"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = request(t, app, "POST", "/accounts", `{"accountType":123}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDepositEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	number := createAccount(t, app)

	status, body := request(t, app, "POST", "/accounts/"+number+"/deposit",
		`{"amount":"500.00","description":"salary","idempotencyKey":"dep-1"}`)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "DEPOSIT", data["transactionType"])
	assert.Equal(t, "0.00", data["balanceBefore"])
	assert.Equal(t, "500.00", data["balanceAfter"])
	code := data["transactionId"].(string)
	assert.True(t, strings.HasPrefix(code, "TXN"))

	// Same idempotency key replays the stored result.
	status, body = request(t, app, "POST", "/accounts/"+number+"/deposit",
		`{"amount":"500.00","description":"salary","idempotencyKey":"dep-1"}`)
	require.Equal(t, fiber.StatusCreated, status)
	replayed := body["data"].(map[string]any)
	assert.Equal(t, code, replayed["transactionId"])

	// Missing idempotency key is a validation failure.
	status, _ = request(t, app, "POST", "/accounts/"+number+"/deposit", `{"amount":"10.00"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Unknown account.
	status, _ = request(t, app, "POST", "/accounts/9999999999/deposit",
		`{"amount":"10.00","idempotencyKey":"dep-2"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestWithdrawEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	number := createAccount(t, app)

	status, _ := request(t, app, "POST", "/accounts/"+number+"/deposit",
		`{"amount":"300.00","idempotencyKey":"w-dep"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := request(t, app, "POST", "/accounts/"+number+"/withdraw",
		`{"amount":"120.00","idempotencyKey":"w-1"}`)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "-120.00", data["amount"])
	assert.Equal(t, "180.00", data["balanceAfter"])

	status, body = request(t, app, "POST", "/accounts/"+number+"/withdraw",
		`{"amount":"1000.00","idempotencyKey":"w-2"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["detail"], "cannot debit")
}

func TestTransferEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	from := createAccount(t, app)
	to := createAccount(t, app)

	status, _ := request(t, app, "POST", "/accounts/"+from+"/deposit",
		`{"amount":"400.00","idempotencyKey":"t-dep"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := request(t, app, "POST", "/transfers",
		`{"fromAccountNumber":"`+from+`","toAccountNumber":"`+to+`","amount":"150.00","idempotencyKey":"t-1"}`)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	legs := data["transactions"].([]any)
	require.Len(t, legs, 2)
	out := legs[0].(map[string]any)
	in := legs[1].(map[string]any)
	assert.Equal(t, "TRANSFER_OUT", out["transactionType"])
	assert.Equal(t, "TRANSFER_IN", in["transactionType"])
	assert.Equal(t, to, out["relatedAccountNumber"])
	assert.Equal(t, from, in["relatedAccountNumber"])
	assert.Equal(t, "250.00", out["balanceAfter"])
	assert.Equal(t, "150.00", in["balanceAfter"])

	// Same source and destination.
	status, _ = request(t, app, "POST", "/transfers",
		`{"fromAccountNumber":"`+from+`","toAccountNumber":"`+from+`","amount":"10.00","idempotencyKey":"t-2"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestBalanceEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	number := createAccount(t, app)

	status, body := request(t, app, "GET", "/accounts/"+number+"/balance", "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, number, data["accountNumber"])
	assert.Equal(t, "0.00", data["balance"])

	status, _ = request(t, app, "GET", "/accounts/9999999999/balance", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestTransactionsEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	number := createAccount(t, app)

	for _, payload := range []string{
		`{"amount":"100.00","description":"salary","idempotencyKey":"h-1"}`,
		`{"amount":"40.00","description":"refund","idempotencyKey":"h-2"}`,
	} {
		status, _ := request(t, app, "POST", "/accounts/"+number+"/deposit", payload)
		require.Equal(t, fiber.StatusCreated, status)
	}
	status, _ := request(t, app, "POST", "/accounts/"+number+"/withdraw",
		`{"amount":"25.00","description":"coffee","idempotencyKey":"h-3"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := request(t, app, "GET", "/accounts/"+number+"/transactions", "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total"])
	items := data["items"].([]any)
	require.Len(t, items, 3)
	newest := items[0].(map[string]any)
	assert.Equal(t, "WITHDRAWAL", newest["transactionType"])

	status, body = request(t, app, "GET", "/accounts/"+number+"/transactions?type=DEPOSIT", "")
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])

	status, body = request(t, app, "GET", "/accounts/"+number+"/transactions?search=coffee", "")
	require.Equal(t, fiber.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total"])

	status, _ = request(t, app, "GET", "/accounts/"+number+"/transactions?type=BOGUS", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = request(t, app, "GET", "/accounts/"+number+"/transactions?startDate=not-a-date", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
