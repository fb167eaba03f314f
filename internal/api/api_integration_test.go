// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "tokentrade/internal"
)

// testApp is the global application instance for testing.
var testApp *app.Application

// testServer is the httptest server.
var testServer *httptest.Server

// TestMain is the special entry point for Go tests, executed once before all tests.
func TestMain(m *testing.M) {
	// 1. Set up environment variables (ensure DB_NAME points to the test database).
	// In a real CI/CD environment, these variables would be provided by the CI system.
	setupEnvVars()

	// 2. Initialize the application. Without a reachable test database the
	// integration suite cannot run, so it is skipped rather than failed.
	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Skipping API integration tests: %v\n", err)
		os.Exit(0)
	}

	// 3. Start an httptest server to test the HTTP handling layer.
	testServer = httptest.NewServer(testApp.HTTPHandler)
	// Ensure the server is closed after all tests are run.
	defer testServer.Close()

	// 4. Run all tests.
	code := m.Run()

	// 5. Shut down application resources after tests (e.g., database connections).
	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// setupEnvVars helper function: sets or checks database environment variables required for testing.
func setupEnvVars() {
	// Ensure these environment variables point to your test database
	if os.Getenv("SERVER_PORT") == "" {
		os.Setenv("SERVER_PORT", "8080")
	}
	if os.Getenv("DB_HOST") == "" {
		os.Setenv("DB_HOST", "localhost")
	}
	if os.Getenv("DB_PORT") == "" {
		os.Setenv("DB_PORT", "5432")
	}
	if os.Getenv("DB_USER") == "" {
		os.Setenv("DB_USER", "user") // Replace with your PostgreSQL username
	}
	if os.Getenv("DB_PASSWORD") == "" {
		os.Setenv("DB_PASSWORD", "password") // Replace with your PostgreSQL password
	}
	if os.Getenv("DB_NAME") == "" {
		os.Setenv("DB_NAME", "tokentrade_test") // Ensure this is your test database name
	}
	if os.Getenv("DB_SSLMODE") == "" {
		os.Setenv("DB_SSLMODE", "disable")
	}
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration-test-secret")
	}
}

// clearDatabase helper function: truncates all relevant tables to ensure a clean database state for each test case.
func clearDatabase(t *testing.T) {
	// Order is important due to foreign key dependencies.
	tables := []string{"audit_log", "transactions", "holdings", "wallets", "tokens", "users"}
	for _, table := range tables {
		// TRUNCATE TABLE ... RESTART IDENTITY CASCADE clears the table, resets sequences, and handles foreign key dependencies.
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

// seedToken helper function: inserts a token directly and returns its ID.
func seedToken(t *testing.T, symbol, name, price string) int64 {
	var id int64
	err := testApp.DB.Get(&id,
		"INSERT INTO tokens (symbol, name, price) VALUES ($1, $2, $3) RETURNING id",
		symbol, name, price)
	require.NoError(t, err)
	return id
}

// signupUser helper function: registers a user via the API and returns the auth token.
func signupUser(t *testing.T, fullName, email, password string) string {
	body := fmt.Sprintf(`{"full_name": %q, "email": %q, "password": %q}`, fullName, email, password)
	resp, respBody := makeRequest(t, "POST", "/auth/signup", strings.NewReader(body), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup failed: %s", respBody)

	var responseMap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))
	token, ok := responseMap["token"].(string)
	require.True(t, ok, "signup response missing token")
	return token
}

// setupFundedWallet helper function: registers a user, creates their wallet and
// deposits the given amount. Returns the auth token.
func setupFundedWallet(t *testing.T, email, deposit string) string {
	token := signupUser(t, "Test User", email, "s3cret")

	resp, body := makeRequest(t, "POST", "/wallets/", nil, token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "wallet creation failed: %s", body)

	if deposit != "" {
		depositBody := fmt.Sprintf(`{"amount": %q}`, deposit)
		respDep, bodyDep := makeRequest(t, "POST", "/wallets/deposit", strings.NewReader(depositBody), token)
		defer respDep.Body.Close()
		require.Equal(t, http.StatusOK, respDep.StatusCode, "deposit failed: %s", bodyDep)
	}
	return token
}

// makeRequest helper function: sends an HTTP request to the test server.
func makeRequest(t *testing.T, method, path string, body io.Reader, authToken string) (*http.Response, string) {
	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// Do NOT defer resp.Body.Close() here. The caller is responsible for closing the body
	// because they might need to read it or check headers after this function returns.
	return resp, string(respBody)
}

// TestAuthIntegration tests the signup and login endpoints.
func TestAuthIntegration(t *testing.T) {
	clearDatabase(t)

	t.Run("SuccessfulSignupAndLogin", func(t *testing.T) {
		token := signupUser(t, "Ada Lovelace", "ada@example.com", "s3cret")
		assert.NotEmpty(t, token)

		resp, body := makeRequest(t, "POST", "/auth/login",
			strings.NewReader(`{"email": "ada@example.com", "password": "s3cret"}`), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &responseMap))
		assert.Equal(t, "Login successful", responseMap["message"])
		assert.NotEmpty(t, responseMap["token"])
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/auth/signup",
			strings.NewReader(`{"full_name": "Ada Again", "email": "ada@example.com", "password": "s3cret"}`), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, "already exists")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/auth/login",
			strings.NewReader(`{"email": "ada@example.com", "password": "wrong"}`), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "invalid email or password")
	})

	t.Run("MissingToken", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/tokens/", nil, "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// TestWalletIntegration tests wallet creation and cash funding.
func TestWalletIntegration(t *testing.T) {
	clearDatabase(t)
	token := signupUser(t, "Wallet User", "wallet_user@example.com", "s3cret")

	t.Run("SuccessfulCreate", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/wallets/", nil, token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &responseMap))
		wallet := responseMap["wallet"].(map[string]interface{})
		address := wallet["address"].(string)
		assert.True(t, strings.HasPrefix(address, "0x"))
		assert.Len(t, address, 42)
	})

	t.Run("SecondWalletRejected", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/wallets/", nil, token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, "wallet already exists")
	})

	t.Run("SuccessfulDeposit", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/wallets/deposit",
			strings.NewReader(`{"amount": "250.50"}`), token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &responseMap))
		assert.Equal(t, "Deposit successful", responseMap["message"])
		newBalance, err := decimal.NewFromString(responseMap["new_balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("250.5").Equal(newBalance))
	})

	t.Run("InvalidDepositAmount", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/wallets/deposit",
			strings.NewReader(`{"amount": "-10"}`), token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "invalid input provided")
	})

	t.Run("DepositDoesNotAppearInTradeHistory", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/transactions", nil, token)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &responseMap))
		assert.Empty(t, responseMap["transactions"])
	})
}

// TestTradeIntegration tests the buy and sell settlement endpoints end to end.
func TestTradeIntegration(t *testing.T) {
	clearDatabase(t)
	tokenID := seedToken(t, "BTC", "Bitcoin", "10.0000")
	authToken := setupFundedWallet(t, "trader@example.com", "100")

	t.Run("SuccessfulBuy", func(t *testing.T) {
		body := fmt.Sprintf(`{"token_id": %d, "quantity": "5"}`, tokenID)
		resp, respBody := makeRequest(t, "POST", "/trade/buy", strings.NewReader(body), authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))

		assert.Equal(t, "Token purchase successful", responseMap["message"])
		walletBalance, err := decimal.NewFromString(responseMap["wallet_balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("50").Equal(walletBalance), "balance should be 50, got %s", walletBalance)

		holdingAmount, err := decimal.NewFromString(responseMap["holding_amount"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("5").Equal(holdingAmount))

		transaction := responseMap["transaction"].(map[string]interface{})
		assert.Equal(t, "BTC", transaction["symbol"])
		totalCost, err := decimal.NewFromString(transaction["total_cost"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("50").Equal(totalCost))
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		// Balance is 50 after the first buy; 20 tokens cost 200.
		body := fmt.Sprintf(`{"token_id": %d, "quantity": "20"}`, tokenID)
		resp, respBody := makeRequest(t, "POST", "/trade/buy", strings.NewReader(body), authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))
		assert.Equal(t, "insufficient funds", responseMap["error"])

		required, err := decimal.NewFromString(responseMap["required"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("200").Equal(required))
		available, err := decimal.NewFromString(responseMap["available"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("50").Equal(available))

		// The failed buy must leave no trace: balance unchanged.
		respPortfolio, bodyPortfolio := makeRequest(t, "GET", "/trade/portfolio", nil, authToken)
		defer respPortfolio.Body.Close()
		var portfolioMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(bodyPortfolio), &portfolioMap))
		balance, err := decimal.NewFromString(portfolioMap["wallet_balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("50").Equal(balance))
	})

	t.Run("SellMoreThanHeld", func(t *testing.T) {
		body := fmt.Sprintf(`{"token_id": %d, "quantity": "6"}`, tokenID)
		resp, respBody := makeRequest(t, "POST", "/trade/sell", strings.NewReader(body), authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))
		assert.Equal(t, "insufficient token holdings", responseMap["error"])

		requested, err := decimal.NewFromString(responseMap["requested"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("6").Equal(requested))
		available, err := decimal.NewFromString(responseMap["available"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("5").Equal(available))
	})

	t.Run("PartialSell", func(t *testing.T) {
		body := fmt.Sprintf(`{"token_id": %d, "quantity": "2"}`, tokenID)
		resp, respBody := makeRequest(t, "POST", "/trade/sell", strings.NewReader(body), authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))

		assert.Equal(t, "Token sale successful", responseMap["message"])
		walletBalance, err := decimal.NewFromString(responseMap["wallet_balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("70").Equal(walletBalance))

		holdingAmount, err := decimal.NewFromString(responseMap["holding_amount"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("3").Equal(holdingAmount))
	})

	t.Run("SellEntireHoldingDeletesIt", func(t *testing.T) {
		body := fmt.Sprintf(`{"token_id": %d, "quantity": "3"}`, tokenID)
		resp, respBody := makeRequest(t, "POST", "/trade/sell", strings.NewReader(body), authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))
		assert.Nil(t, responseMap["holding_amount"], "emptied holding should report null")

		// The row is gone, so another sell reports the holding as absent.
		respAgain, bodyAgain := makeRequest(t, "POST", "/trade/sell",
			strings.NewReader(fmt.Sprintf(`{"token_id": %d, "quantity": "1"}`, tokenID)), authToken)
		defer respAgain.Body.Close()
		assert.Equal(t, http.StatusBadRequest, respAgain.StatusCode)
		assert.Contains(t, bodyAgain, "token not held by wallet")

		// And the portfolio no longer lists the token.
		respPortfolio, bodyPortfolio := makeRequest(t, "GET", "/trade/portfolio", nil, authToken)
		defer respPortfolio.Body.Close()
		var portfolioMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(bodyPortfolio), &portfolioMap))
		assert.Empty(t, portfolioMap["holdings"])
	})

	t.Run("HistoryRecordsEveryCommittedTrade", func(t *testing.T) {
		resp, respBody := makeRequest(t, "GET", "/transactions", nil, authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(respBody), &responseMap))

		// 1 buy + 2 sells committed; the rejected trades left no records.
		entries := responseMap["transactions"].([]interface{})
		require.Len(t, entries, 3)

		// Newest first.
		newest := entries[0].(map[string]interface{})
		assert.Equal(t, "SELL", newest["type"])
		oldest := entries[2].(map[string]interface{})
		assert.Equal(t, "BUY", oldest["type"])
		assert.Equal(t, "BTC", oldest["token_symbol"])
	})

	t.Run("UnknownToken", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/trade/buy",
			strings.NewReader(`{"token_id": 9999, "quantity": "1"}`), authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "token not found")
	})
}

// TestTokenSummaryIntegration tests the aggregate token holdings endpoint.
func TestTokenSummaryIntegration(t *testing.T) {
	clearDatabase(t)
	btcID := seedToken(t, "BTC", "Bitcoin", "10.0000")
	seedToken(t, "ETH", "Ethereum", "5.0000")
	authToken := setupFundedWallet(t, "summary@example.com", "100")

	buyBody := fmt.Sprintf(`{"token_id": %d, "quantity": "5"}`, btcID)
	respBuy, bodyBuy := makeRequest(t, "POST", "/trade/buy", strings.NewReader(buyBody), authToken)
	defer respBuy.Body.Close()
	require.Equal(t, http.StatusOK, respBuy.StatusCode, "buy failed: %s", bodyBuy)

	resp, body := makeRequest(t, "GET", "/tokens/summary", nil, authToken)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var responseMap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &responseMap))

	summary := responseMap["summary"].([]interface{})
	require.Len(t, summary, 2)

	// Most held first: BTC with one holder, then unheld ETH.
	first := summary[0].(map[string]interface{})
	assert.Equal(t, "BTC", first["symbol"])
	totalHoldings, err := decimal.NewFromString(first["total_holdings"].(string))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5").Equal(totalHoldings))
	assert.Equal(t, float64(1), first["wallet_count"])

	second := summary[1].(map[string]interface{})
	assert.Equal(t, "ETH", second["symbol"])
	assert.Equal(t, float64(0), second["wallet_count"])
}

// TestPriceUpdateIntegration tests the price oracle endpoint and its audit trail.
func TestPriceUpdateIntegration(t *testing.T) {
	clearDatabase(t)
	tokenID := seedToken(t, "ETH", "Ethereum", "25.0000")
	authToken := signupUser(t, "Oracle User", "oracle@example.com", "s3cret")

	t.Run("SuccessfulUpdate", func(t *testing.T) {
		resp, body := makeRequest(t, "PUT", fmt.Sprintf("/tokens/%d/price", tokenID), nil, authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &responseMap))

		oldPrice, err := decimal.NewFromString(responseMap["old_price"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("25").Equal(oldPrice))

		newPrice, err := decimal.NewFromString(responseMap["new_price"].(string))
		require.NoError(t, err)
		assert.True(t, newPrice.IsPositive())

		// The audit entry is committed in the same scope as the price write.
		var message string
		err = testApp.DB.Get(&message,
			"SELECT message FROM audit_log ORDER BY id DESC LIMIT 1")
		require.NoError(t, err)
		assert.Contains(t, message, "Token ETH (Ethereum): price updated from 25")
	})

	t.Run("UnknownToken", func(t *testing.T) {
		resp, body := makeRequest(t, "PUT", "/tokens/9999/price", nil, authToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "token not found")
	})
}
