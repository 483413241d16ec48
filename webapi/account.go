// Account and transaction routes:
//
//   - POST /accounts                          : Open a new account.
//   - GET  /accounts/:number/balance          : Current balance.
//   - POST /accounts/:number/deposit          : Credit the account.
//   - POST /accounts/:number/withdraw         : Debit the account.
//   - GET  /accounts/:number/transactions     : Filtered history, newest first.
//   - POST /transfers                         : Move funds between accounts.
package webapi

import (
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/dto"
	"github.com/corebank/corebank/pkg/processor"
	"github.com/corebank/corebank/pkg/service/account"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// AccountRoutes registers the account and transaction endpoints.
func AccountRoutes(app *fiber.App, accounts *account.Service, engine *processor.Processor) {
	app.Post("/accounts", CreateAccount(accounts))
	app.Get("/accounts/:number/balance", GetBalance(accounts))
	app.Post("/accounts/:number/deposit", Deposit(engine))
	app.Post("/accounts/:number/withdraw", Withdraw(engine))
	app.Get("/accounts/:number/transactions", GetTransactions(accounts))
	app.Post("/transfers", Transfer(engine))
}

// CreateAccount returns the handler for opening a new account.
func CreateAccount(accounts *account.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateAccountRequest](c)
		if err != nil {
			return nil
		}
		a, err := accounts.CreateAccount(c.Context(), domain.AccountType(input.AccountType), actorFromRequest(c))
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to create account", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Account created",
			Data:    ToAccountResponse(a),
		})
	}
}

// GetBalance returns the handler for reading an account's balance.
func GetBalance(accounts *account.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := accounts.GetAccount(c.Context(), c.Params("number"))
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch account", err.Error())
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Balance fetched",
			Data:    ToAccountResponse(a),
		})
	}
}

// Deposit returns the handler for crediting an account.
func Deposit(engine *processor.Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[DepositRequest](c)
		if err != nil {
			return nil
		}
		tx, err := engine.Deposit(c.Context(), processor.Deposit{
			AccountNumber:  c.Params("number"),
			Amount:         input.Amount,
			Description:    input.Description,
			IdempotencyKey: input.IdempotencyKey,
			Actor:          actorFromRequest(c),
		})
		if err != nil {
			log.Errorf("Deposit failed: %v", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Deposit failed", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Deposit committed",
			Data:    ToTransactionResponse(tx),
		})
	}
}

// Withdraw returns the handler for debiting an account.
func Withdraw(engine *processor.Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[WithdrawRequest](c)
		if err != nil {
			return nil
		}
		tx, err := engine.Withdraw(c.Context(), processor.Withdraw{
			AccountNumber:  c.Params("number"),
			Amount:         input.Amount,
			Description:    input.Description,
			IdempotencyKey: input.IdempotencyKey,
			Actor:          actorFromRequest(c),
		})
		if err != nil {
			log.Errorf("Withdrawal failed: %v", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Withdrawal failed", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Withdrawal committed",
			Data:    ToTransactionResponse(tx),
		})
	}
}

// Transfer returns the handler for moving funds between accounts.
func Transfer(engine *processor.Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[TransferRequest](c)
		if err != nil {
			return nil
		}
		txs, err := engine.Transfer(c.Context(), processor.Transfer{
			FromAccountNumber: input.FromAccountNumber,
			ToAccountNumber:   input.ToAccountNumber,
			Amount:            input.Amount,
			Description:       input.Description,
			IdempotencyKey:    input.IdempotencyKey,
			Actor:             actorFromRequest(c),
		})
		if err != nil {
			log.Errorf("Transfer failed: %v", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Transfer failed", err.Error())
		}
		resp := TransferResponse{Transactions: make([]*TransactionResponse, 0, len(txs))}
		for _, tx := range txs {
			resp.Transactions = append(resp.Transactions, ToTransactionResponse(tx))
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "Transfer committed",
			Data:    resp,
		})
	}
}

// GetTransactions returns the handler for the account history query. Filters
// arrive as query parameters: type, startDate, endDate (RFC 3339 or
// YYYY-MM-DD), search, page, pageSize.
func GetTransactions(accounts *account.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := historyFilter(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid query parameter", err.Error())
		}
		page, err := accounts.ListTransactions(c.Context(), c.Params("number"), filter)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch transactions", err.Error())
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Transactions fetched",
			Data:    ToTransactionPageResponse(page),
		})
	}
}

func historyFilter(c *fiber.Ctx) (dto.TransactionFilter, error) {
	filter := dto.TransactionFilter{
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", dto.DefaultPageSize),
	}
	if raw := c.Query("type"); raw != "" {
		typ := domain.TransactionType(raw)
		if !typ.Valid() {
			return filter, fiber.NewError(fiber.StatusBadRequest, "unknown transaction type "+raw)
		}
		filter.Type = &typ
	}
	if raw := c.Query("startDate"); raw != "" {
		at, err := parseQueryTime(raw, false)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &at
	}
	if raw := c.Query("endDate"); raw != "" {
		at, err := parseQueryTime(raw, true)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &at
	}
	return filter, nil
}

// parseQueryTime accepts RFC 3339 timestamps and bare dates. A bare end
// date covers the whole day.
func parseQueryTime(raw string, endOfDay bool) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at, nil
	}
	at, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		at = at.Add(24*time.Hour - time.Nanosecond)
	}
	return at, nil
}
