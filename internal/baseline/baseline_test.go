package baseline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carlycompare/carlycompare/internal/baseline"
	"github.com/carlycompare/carlycompare/internal/engine"
)

func testClient(t *testing.T, styles, appraisal http.HandlerFunc) *baseline.Client {
	t.Helper()
	stylesSrv := httptest.NewServer(styles)
	t.Cleanup(stylesSrv.Close)
	appraisalSrv := httptest.NewServer(appraisal)
	t.Cleanup(appraisalSrv.Close)
	return baseline.NewClient(stylesSrv.URL, appraisalSrv.URL, 5*time.Second)
}

func TestFetch_TwoStepLookup(t *testing.T) {
	var gotStyleParams, gotAppraisalParams map[string]string

	c := testClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			gotStyleParams = map[string]string{
				"make":  r.URL.Query().Get("make"),
				"model": r.URL.Query().Get("model"),
				"year":  r.URL.Query().Get("year"),
			}
			w.Write([]byte(`{"styles":[{"id":401712057},{"id":401712058}]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			gotAppraisalParams = map[string]string{
				"styleId": r.URL.Query().Get("styleId"),
				"mileage": r.URL.Query().Get("mileage"),
				"zip":     r.URL.Query().Get("zip"),
			}
			w.Write([]byte(`{
				"tradeIn": {"base": 17000, "adjusted": 17500},
				"dealerRetail": {"adjusted": 20500},
				"privateParty": {"adjusted": 18900}
			}`))
		},
	)

	base, err := c.Fetch(context.Background(), engine.BaselineQuery{
		Make: "Honda", Model: "Accord", Year: "2019", Mileage: 45000, ZIP: "30301",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotStyleParams["make"] != "Honda" || gotStyleParams["year"] != "2019" {
		t.Errorf("style params = %v", gotStyleParams)
	}
	// First style wins.
	if gotAppraisalParams["styleId"] != "401712057" {
		t.Errorf("styleId = %q, want first style", gotAppraisalParams["styleId"])
	}
	if gotAppraisalParams["mileage"] != "45000" || gotAppraisalParams["zip"] != "30301" {
		t.Errorf("appraisal params = %v", gotAppraisalParams)
	}

	if base.Anchor() != 17500 {
		t.Errorf("Anchor() = %v, want 17500", base.Anchor())
	}
	if base.TradeInBase != 17000 || base.DealerRetail != 20500 || base.PrivateParty != 18900 {
		t.Errorf("secondary figures = %+v", base)
	}
	if base.Source != "edmunds" {
		t.Errorf("Source = %q, want edmunds", base.Source)
	}
}

func TestFetch_NoStyles(t *testing.T) {
	c := testClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"styles":[]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("appraisal endpoint called after style resolution failed")
		},
	)

	_, err := c.Fetch(context.Background(), engine.BaselineQuery{Make: "Yugo", Model: "GV", Year: "1987"})
	if engine.KindOf(err) != engine.KindStyleNotFound {
		t.Errorf("kind = %q, want %q", engine.KindOf(err), engine.KindStyleNotFound)
	}
}

func TestFetch_StyleServiceDown(t *testing.T) {
	c := testClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream error", http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	_, err := c.Fetch(context.Background(), engine.BaselineQuery{Make: "Honda", Model: "Accord", Year: "2019"})
	if engine.KindOf(err) != engine.KindBaselineUnavailable {
		t.Errorf("kind = %q, want %q", engine.KindOf(err), engine.KindBaselineUnavailable)
	}
}

func TestFetch_AppraisalNon200(t *testing.T) {
	c := testClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"styles":[{"id":1}]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		},
	)

	_, err := c.Fetch(context.Background(), engine.BaselineQuery{Make: "Honda", Model: "Accord", Year: "2019"})
	if engine.KindOf(err) != engine.KindBaselineUnavailable {
		t.Errorf("kind = %q, want %q", engine.KindOf(err), engine.KindBaselineUnavailable)
	}
}

func TestFetch_SingleAttempt(t *testing.T) {
	calls := 0
	c := testClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, "flaky", http.StatusInternalServerError)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	c.Fetch(context.Background(), engine.BaselineQuery{Make: "Honda", Model: "Accord", Year: "2019"})
	if calls != 1 {
		t.Errorf("style endpoint calls = %d, want exactly 1 (no retries)", calls)
	}
}
