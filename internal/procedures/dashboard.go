package procedures

import (
	"encoding/json"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

var chartPeriods = []string{"week", "month", "year"}

func registerDashboard(r *rpc.Router, st *store.Stores) {
	r.Query("dashboard.getSummary", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		return st.Dashboard.GetSummary(ctx)
	})

	r.Query("dashboard.getRecentActivity", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			Limit int `json:"limit"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		if in.Limit == 0 {
			in.Limit = 10
		}
		if in.Limit < 1 || in.Limit > 50 {
			return nil, apperr.Validation(map[string]string{"limit": "out_of_range"})
		}
		return st.Dashboard.RecentActivity(ctx, in.Limit)
	})

	r.Query("dashboard.getSalesChart", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			Period string `json:"period"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.OneOf("period", in.Period, chartPeriods, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		if in.Period == "" {
			in.Period = "month"
		}
		return st.Dashboard.SalesChart(ctx, in.Period)
	})
}
