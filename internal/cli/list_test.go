package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/storage"
	"github.com/user/orderdesk/internal/view"
)

// resetFlags resets global command flags for test isolation
func resetFlags() {
	// Reset view flags of list, export and filters save
	listFlags.reset()
	exportFlags.reset()
	filtersSaveFlags.reset()
	// Reset init command flags
	initForce = false
	initEmpty = false
	// Reset add command flags
	addCustomer = ""
	addProducts = ""
	addStart = ""
	addEnd = ""
	addDistribution = ""
	addStatus = ""
	addDelivery = ""
	addPrice = ""
	addDepartment = ""
	addTag = ""
	addNotes = ""
	// Reset export command flags
	exportFormat = ""
	exportOutput = ""
	exportSelected = nil
	exportForce = false
	// Reset browse command flags
	browseWatch = false
	browseMetricsAddr = ""
	// Reset global flags
	jsonOutput = false
	dataDir = ""
	configPath = ""
	actorName = ""
	quiet = false
	verbose = false
}

func listJSON(t *testing.T, args ...string) view.ViewState {
	t.Helper()
	output := runCommand(t, append([]string{"list", "--json"}, args...)...)
	if ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\nOutput: %s", ExitCode, output)
	}
	var state view.ViewState
	if err := json.Unmarshal([]byte(output), &state); err != nil {
		t.Fatalf("expected valid JSON, got error: %v\nOutput: %s", err, output)
	}
	return state
}

func countDemo(state model.FilterState) int {
	return len(view.Filter(storage.DemoOrders(), state))
}

func TestList(t *testing.T) {
	t.Run("first page of all orders", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		state := listJSON(t)

		if state.Total != storage.DemoSize {
			t.Errorf("expected total %d, got %d", storage.DemoSize, state.Total)
		}
		if len(state.Rows) != 10 {
			t.Errorf("expected 10 rows, got %d", len(state.Rows))
		}
		if state.PageIndex != 0 {
			t.Errorf("expected page index 0, got %d", state.PageIndex)
		}
		if state.Label != "Showing 1–10 of 64 results" {
			t.Errorf("unexpected label %q", state.Label)
		}
	})

	t.Run("status flags match any of the values", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		state := listJSON(t, "--status", "Booked", "--status", "request")

		want := countDemo(model.FilterState{Statuses: []model.OrderStatus{model.StatusBooked, model.StatusRequest}})
		if state.Total != want {
			t.Errorf("expected total %d, got %d", want, state.Total)
		}
		for _, o := range state.Rows {
			if o.Status != model.StatusBooked && o.Status != model.StatusRequest {
				t.Errorf("unexpected status %s on %s", o.Status, o.Ref)
			}
		}
		if len(state.Chips) != 2 {
			t.Errorf("expected 2 chips, got %d", len(state.Chips))
		}
	})

	t.Run("query string sets filter sort and page", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		state := listJSON(t, "--query", "sort=-price&page=2&size=20")

		if state.PageIndex != 1 {
			t.Errorf("expected page index 1, got %d", state.PageIndex)
		}
		if state.PageSize != 20 {
			t.Errorf("expected page size 20, got %d", state.PageSize)
		}
		if state.Sort.String() != "-price" {
			t.Errorf("expected sort -price, got %s", state.Sort)
		}
		if len(state.Rows) != 20 {
			t.Errorf("expected 20 rows, got %d", len(state.Rows))
		}
	})

	t.Run("flags add to the query string", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		state := listJSON(t, "--query", "status=Booked", "--status", "Cancelled")

		if len(state.Filter.Statuses) != 2 {
			t.Errorf("expected 2 statuses, got %v", state.Filter.Statuses)
		}
	})

	t.Run("search narrows to one order", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		output := runCommand(t, "list", "--search", "qh29")

		if ExitCode != 0 {
			t.Fatalf("expected exit code 0, got %d", ExitCode)
		}
		if !strings.Contains(output, "QH29") {
			t.Errorf("expected QH29 in output, got: %s", output)
		}
		if !strings.Contains(output, "[Search: qh29]") {
			t.Errorf("expected search chip in output, got: %s", output)
		}
		if !strings.Contains(output, "Showing 1–1 of 1 results") {
			t.Errorf("expected result label in output, got: %s", output)
		}
	})

	t.Run("no matches prints a notice", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		output := runCommand(t, "list", "--search", "no-such-order")

		if !strings.Contains(output, "No orders found.") {
			t.Errorf("expected empty notice, got: %s", output)
		}
		if !strings.Contains(output, "Showing 0 results") {
			t.Errorf("expected zero label, got: %s", output)
		}
	})

	t.Run("page past the end is clamped", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		state := listJSON(t, "--page", "99")

		if state.PageIndex != state.PageCount-1 {
			t.Errorf("expected last page %d, got %d", state.PageCount-1, state.PageIndex)
		}
	})

	t.Run("invalid status is a validation error", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		output := runCommand(t, "list", "--status", "Shipped", "--json")

		if ExitCode != 2 {
			t.Errorf("expected exit code 2, got %d", ExitCode)
		}
		if !strings.Contains(output, ErrCodeValidation) {
			t.Errorf("expected %s in output, got: %s", ErrCodeValidation, output)
		}
	})

	t.Run("invalid page size is a validation error", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		runCommand(t, "list", "--page-size", "-3")

		if ExitCode != 2 {
			t.Errorf("expected exit code 2, got %d", ExitCode)
		}
	})

	t.Run("unknown saved filter", func(t *testing.T) {
		_, cleanup := setupDemoEnv(t)
		defer cleanup()

		output := runCommand(t, "list", "--saved", "nothing", "--json")

		if ExitCode != 1 {
			t.Errorf("expected exit code 1, got %d", ExitCode)
		}
		if !strings.Contains(output, ErrCodeFilterNotFound) {
			t.Errorf("expected %s in output, got: %s", ErrCodeFilterNotFound, output)
		}
	})

	t.Run("not initialized", func(t *testing.T) {
		_, cleanup := setupTestEnv(t)
		defer cleanup()

		output := runCommand(t, "list", "--json")

		if ExitCode != 1 {
			t.Errorf("expected exit code 1, got %d", ExitCode)
		}
		if !strings.Contains(output, ErrCodeNotInitialized) {
			t.Errorf("expected %s in output, got: %s", ErrCodeNotInitialized, output)
		}
	})
}
