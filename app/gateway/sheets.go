package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ayathanschool/fee-app/app/models"
	"github.com/sirupsen/logrus"
)

// SheetsClient talks to the legacy Google Apps Script web app that
// fronts the fee spreadsheet. Reads go over GET with an action query
// parameter; writes go over POST with a JSON body sent as text/plain,
// which is the only body type the web app accepts.
type SheetsClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	log     *logrus.Logger
}

// NewSheetsClient builds a client with a generous timeout; the web app
// routinely takes several seconds on cold starts.
func NewSheetsClient(baseURL, apiKey string, log *logrus.Logger) *SheetsClient {
	return &SheetsClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// envelope is the common response wrapper of the web app. Fields are a
// union over every action; absent ones decode to zero values.
type envelope struct {
	OK        bool            `json:"ok"`
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	PaidItems []string        `json:"paidItems"`
	ReceiptNo string          `json:"receiptNo"`
	Date      string          `json:"date"`
	IsPaid    bool            `json:"isPaid"`
	Matches   []PaidMatch     `json:"matchingRecords"`
}

// flexString tolerates the sheet emitting numbers where strings are
// expected (admission numbers, receipt numbers, phone numbers).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// flexFloat tolerates amounts arriving as quoted strings or empty
// cells.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

func pick(vals ...flexString) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// Sheet rows carry inconsistent column names across tabs; every read
// type keeps the aliases and collapses them after decode.

type sheetStudent struct {
	AdmNo       flexString `json:"admNo"`
	Name        flexString `json:"name"`
	StudentName flexString `json:"studentName"`
	Cls         flexString `json:"cls"`
	Class       flexString `json:"class"`
	Phone       flexString `json:"phone"`
	Mobile      flexString `json:"mobile"`
}

type sheetFeeHead struct {
	Cls     flexString `json:"cls"`
	Class   flexString `json:"class"`
	FeeHead flexString `json:"feeHead"`
	Head    flexString `json:"head"`
	Amount  flexFloat  `json:"amount"`
	DueDate flexString `json:"dueDate"`
}

type sheetTransaction struct {
	ReceiptNo flexString `json:"receiptNo"`
	Date      flexString `json:"date"`
	AdmNo     flexString `json:"admNo"`
	Name      flexString `json:"name"`
	Cls       flexString `json:"cls"`
	Class     flexString `json:"class"`
	FeeHead   flexString `json:"feeHead"`
	Amount    flexFloat  `json:"amount"`
	Fine      flexFloat  `json:"fine"`
	Mode      flexString `json:"mode"`
	Void      flexString `json:"void"`
}

func (c *SheetsClient) get(ctx context.Context, action string, out interface{}) error {
	u := c.BaseURL + "?action=" + url.QueryEscape(action)
	if c.APIKey != "" {
		u += "&key=" + url.QueryEscape(c.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, action, out)
}

func (c *SheetsClient) post(ctx context.Context, payload interface{}) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	var env envelope
	if err := c.do(req, "post", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *SheetsClient) do(req *http.Request, action string, out interface{}) error {
	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("sheets %s: %w", action, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("sheets %s: read body: %w", action, err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets %s: status %d", action, res.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("sheets %s: decode: %w", action, err)
	}
	c.log.WithFields(logrus.Fields{
		"action": action,
		"took":   time.Since(start).String(),
	}).Debug("sheets request")
	return nil
}

func (c *SheetsClient) list(ctx context.Context, action string, rows interface{}) error {
	var env envelope
	if err := c.get(ctx, action, &env); err != nil {
		return err
	}
	if !env.OK {
		return fmt.Errorf("sheets %s: %s", action, env.Error)
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, rows)
}

func (c *SheetsClient) ListStudents(ctx context.Context) ([]models.Student, error) {
	var rows []sheetStudent
	if err := c.list(ctx, "students", &rows); err != nil {
		return nil, err
	}
	out := make([]models.Student, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Student{
			AdmNo: string(r.AdmNo),
			Name:  pick(r.Name, r.StudentName),
			Class: pick(r.Cls, r.Class),
			Phone: pick(r.Phone, r.Mobile),
		})
	}
	return out, nil
}

func (c *SheetsClient) ListFeeHeads(ctx context.Context) ([]models.FeeHead, error) {
	var rows []sheetFeeHead
	if err := c.list(ctx, "feeheads", &rows); err != nil {
		return nil, err
	}
	out := make([]models.FeeHead, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.FeeHead{
			Class:   pick(r.Cls, r.Class),
			FeeHead: pick(r.FeeHead, r.Head),
			Amount:  float64(r.Amount),
			DueDate: string(r.DueDate),
		})
	}
	return out, nil
}

func (c *SheetsClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var rows []sheetTransaction
	if err := c.list(ctx, "transactions", &rows); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Transaction{
			ReceiptNo: string(r.ReceiptNo),
			Date:      string(r.Date),
			AdmNo:     string(r.AdmNo),
			Name:      string(r.Name),
			Class:     pick(r.Cls, r.Class),
			FeeHead:   string(r.FeeHead),
			Amount:    float64(r.Amount),
			Fine:      float64(r.Fine),
			Mode:      string(r.Mode),
			Void:      string(r.Void),
		})
	}
	return out, nil
}

func (c *SheetsClient) CheckPaymentStatus(ctx context.Context, admNo, feeHead string) (CheckResult, error) {
	u := c.BaseURL + "?action=checkPayment&admNo=" + url.QueryEscape(admNo) + "&feeHead=" + url.QueryEscape(feeHead)
	if c.APIKey != "" {
		u += "&key=" + url.QueryEscape(c.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return CheckResult{}, err
	}
	var env envelope
	if err := c.do(req, "checkPayment", &env); err != nil {
		return CheckResult{}, err
	}
	if !env.OK {
		return CheckResult{}, fmt.Errorf("sheets checkPayment: %s", env.Error)
	}
	return CheckResult{IsPaid: env.IsPaid, Matches: env.Matches}, nil
}

func (c *SheetsClient) SubmitPaymentBatch(ctx context.Context, breq BatchRequest) (BatchResult, error) {
	payload := struct {
		Action string `json:"action"`
		Key    string `json:"key,omitempty"`
		BatchRequest
	}{Action: "addPaymentBatch", Key: c.APIKey, BatchRequest: breq}

	env, err := c.post(ctx, payload)
	if err != nil {
		return BatchResult{}, err
	}
	if !env.OK {
		if env.Error == "duplicate_payment" {
			return BatchResult{}, &DuplicatePaymentError{PaidItems: env.PaidItems, Message: env.Message}
		}
		return BatchResult{}, fmt.Errorf("sheets addPaymentBatch: %s", env.Error)
	}
	return BatchResult{ReceiptNo: env.ReceiptNo, Date: env.Date}, nil
}

func (c *SheetsClient) VoidReceipt(ctx context.Context, receiptNo string) error {
	return c.setVoid(ctx, "voidReceipt", receiptNo)
}

func (c *SheetsClient) UnvoidReceipt(ctx context.Context, receiptNo string) error {
	return c.setVoid(ctx, "unvoidReceipt", receiptNo)
}

func (c *SheetsClient) setVoid(ctx context.Context, action, receiptNo string) error {
	payload := map[string]string{"action": action, "receiptNo": receiptNo}
	if c.APIKey != "" {
		payload["key"] = c.APIKey
	}
	env, err := c.post(ctx, payload)
	if err != nil {
		return err
	}
	if !env.OK {
		if env.Error == "not_found" {
			return ErrNotFound
		}
		return fmt.Errorf("sheets %s: %s", action, env.Error)
	}
	return nil
}
