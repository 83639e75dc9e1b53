package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", serverURL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	printJSON(&out, struct {
		A int `json:"a"`
	}{A: 1})

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}
}

func TestDebitCmd_SendsMutation(t *testing.T) {
	var (
		gotPath   string
		gotActor  string
		gotKey    string
		gotAmount string
		gotLoc    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotActor = r.Header.Get(actorHeader)
		gotKey = r.Header.Get(idempotencyHeader)

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotAmount = body["amount"]
		gotLoc = body["location_id"]

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"folio":"TRX-20251001-000007","kind":"debit","signed_amount":"-30","balance_before":"100","balance_after":"70"}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "--actor", "cashier-1", "debit", "c1", "30", "--location", "l1", "--idempotency-key", "k-1")

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/cards/c1/debit", gotPath)
	assert.Equal(t, "cashier-1", gotActor)
	assert.Equal(t, "k-1", gotKey)
	assert.Equal(t, "30", gotAmount)
	assert.Equal(t, "l1", gotLoc)
	assert.Contains(t, out, "TRX-20251001-000007 debit -30.00: 100.00 -> 70.00")
}

func TestCreditCmd_RejectsMalformedAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for a malformed amount")
	}))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, "credit", "c1", "ten")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestDebitCmd_ReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"insufficient balance","message":"balance 10.00, requested 30.00"}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, "debit", "c1", "30", "--location", "l1")

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "insufficient balance", apiErr.Code)
}

func TestCardsGetCmd_JSON(t *testing.T) {
	var gotRef string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		io.WriteString(w, `{"id":"c1","external_id":"GC-1","owner_name":"Ana","balance":"12.5","active":true,"status":"active"}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "--json", "cards", "get", "GC-1")

	require.NoError(t, err)
	assert.Equal(t, "GC-1", gotRef)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "c1", decoded["id"])
}

func TestHistoryCmd_PassesFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"entries":[{"folio":"TRX-20251001-000001","kind":"credit","signed_amount":"100","balance_after":"100","created_at":"2025-10-01T09:00:00Z"}],"total":1}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "history", "c1", "--from", "2025-10-01", "--kind", "credit", "--limit", "5")

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "from=2025-10-01")
	assert.Contains(t, gotQuery, "kind=credit")
	assert.Contains(t, gotQuery, "limit=5")
	assert.Contains(t, out, "TRX-20251001-000001")
	assert.Contains(t, out, "100.00")
}

func TestImportCmd_UploadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carga.csv")
	require.NoError(t, os.WriteFile(path, []byte("card,amount\nGC-1,10\n"), 0o600))

	var (
		gotFilename string
		gotMultiple string
		gotContent  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		raw, _ := io.ReadAll(file)

		gotFilename = header.Filename
		gotMultiple = r.FormValue("allow_multiple")
		gotContent = string(raw)

		io.WriteString(w, `{"filename":"carga.csv","processed":[],"errors":[{"row":3,"card_ref":"GC-9","message":"card not found"}],"stats":{"processed":1,"errors":1,"total_rows":2,"total_credited":"10","total_debited":"0","net_change":"10"}}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "import", path, "--allow-multiple")

	require.NoError(t, err)
	assert.Equal(t, "carga.csv", gotFilename)
	assert.Equal(t, "true", gotMultiple)
	assert.Equal(t, "card,amount\nGC-1,10\n", gotContent)
	assert.Contains(t, out, "1 of 2 row(s) applied, 1 error(s)")
	assert.Contains(t, out, "row 3 (GC-9): card not found")
}

func TestLedgerConsistencyCmd(t *testing.T) {
	t.Run("passes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"consistent":true,"drifts":[]}`)
		}))
		defer srv.Close()

		out, err := runCLI(t, srv.URL, "ledger", "consistency")
		require.NoError(t, err)
		assert.Contains(t, out, "PASSED")
	})

	t.Run("reports drifts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"consistent":false,"drifts":[{"card_id":"c1","external_id":"GC-1","recorded":"5","calculated":"4","difference":"1"}]}`)
		}))
		defer srv.Close()

		out, err := runCLI(t, srv.URL, "ledger", "consistency")
		require.Error(t, err)
		assert.True(t, strings.Contains(out, "c1 (GC-1): recorded 5.00, calculated 4.00"), out)
	})
}

func TestReconcileCmd_NotReconciled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"card_id":"c1","recorded_balance":"10","calculated_balance":"8","difference":"2","entry_count":2,"is_reconciled":false}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, "reconcile", "c1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "difference 2.00")
}

func TestLedgerReportCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ledger/reconciliation", r.URL.Path)
		io.WriteString(w, `{"total_cards":2,"reconciled_cards":1,"ledger_consistent":true,"discrepancies":[{"card_id":"c2","recorded_balance":"9","calculated_balance":"8","difference":"1","is_reconciled":false}],"drifts":[]}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "ledger", "report")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 card(s) off")
	assert.Contains(t, out, "c2: recorded 9.00, calculated 8.00")
}

func TestClosureCmd_ResolvesLocationName(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/locations/lookup":
			assert.Equal(t, "Centro Norte", r.URL.Query().Get("ref"))
			io.WriteString(w, `{"id":"loc-1","name":"Centro Norte"}`)
		default:
			io.WriteString(w, `{"location":{"id":"loc-1","name":"Centro Norte"},"entries":[],"summary":{}}`)
		}
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "closure", "Centro Norte")

	require.NoError(t, err)
	assert.Equal(t, []string{"/api/v1/locations/lookup", "/api/v1/locations/loc-1/closure"}, paths)
	assert.Contains(t, out, "Location: Centro Norte")
}
