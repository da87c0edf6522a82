package reports

import (
	"strconv"
	"time"

	"github.com/ayathanschool/fee-app/app/reports"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
)

// filtersFromQuery assembles the filter set from query parameters. A
// quick range selector overrides from/to; the viewer's class
// restriction overrides everything.
func filtersFromQuery(c *fiber.Ctx) reports.FilterSet {
	f := reports.FilterSet{
		Status:      c.Query("status", reports.StatusValid),
		From:        c.Query("from"),
		To:          c.Query("to"),
		Class:       c.Query("class"),
		FeeHead:     c.Query("feeHead"),
		Mode:        c.Query("mode"),
		Search:      c.Query("q"),
		IncludeFine: c.Query("includeFine", "true") == "true",
		ViewerClass: auth.SessionFromCtx(c).RestrictedClass(),
	}
	if r := c.Query("range"); r != "" && r != reports.RangeCustom {
		if from, to := reports.QuickRange(r, time.Now()); from != "" {
			f.From, f.To = from, to
		}
	}
	if v, err := strconv.ParseFloat(c.Query("min"), 64); err == nil {
		f.MinAmount = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max"), 64); err == nil {
		f.MaxAmount = &v
	}
	return f
}

// GetReportAPI returns the filtered rows, their summary, and the
// grouped rollup when groupBy is set.
func GetReportAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := filtersFromQuery(c)
		rows := reports.Filter(reports.BuildRows(st.Transactions()), f)

		data := fiber.Map{
			"rows":    rows,
			"summary": reports.Summarize(rows, f.IncludeFine),
		}
		if groupBy := c.Query("groupBy"); groupBy != "" && groupBy != reports.GroupNone {
			data["groups"] = reports.Group(rows, groupBy, f.IncludeFine)
		}
		return c.JSON(fiber.Map{"success": true, "data": data})
	}
}

// GetFilterOptionsAPI serves the dropdown values for the filter bar.
func GetFilterOptionsAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		classes := reports.Classes(st.Students())
		if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" {
			classes = []string{restricted}
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"classes": classes,
				"modes":   reports.Modes(st.Transactions()),
			},
		})
	}
}

// ExportCSVAPI streams the detailed CSV, or the grouped CSV when
// groupBy is set.
func ExportCSVAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := filtersFromQuery(c)
		rows := reports.Filter(reports.BuildRows(st.Transactions()), f)

		var body, name string
		if groupBy := c.Query("groupBy"); groupBy != "" && groupBy != reports.GroupNone {
			body = reports.GroupedCSV(reports.Group(rows, groupBy, f.IncludeFine))
			name = "fee-report-grouped.csv"
		} else {
			body = reports.DetailedCSV(rows, f.IncludeFine)
			name = "fee-report.csv"
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		return c.SendString(body)
	}
}

// ExportXLSXAPI streams the detailed report as a workbook.
func ExportXLSXAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := filtersFromQuery(c)
		rows := reports.Filter(reports.BuildRows(st.Transactions()), f)

		file, err := reports.DetailedXLSX(rows, f.IncludeFine)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}
		buf, err := file.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="fee-report.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
