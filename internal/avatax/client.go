package avatax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Endpoint selection is driven entirely by the sandbox flag.
const (
	ProductionBaseURL = "https://rest.avatax.com/api/v2/"
	SandboxBaseURL    = "https://sandbox-rest.avatax.com/api/v2/"
)

// Operation labels attached to audit events and metrics.
const (
	OperationCalculateTax   = "calculate_tax"
	OperationRecordTax      = "record_tax"
	OperationVerifyAddress  = "verify_address"
	OperationVoidTax        = "void_tax"
	OperationTestConnection = "test"
)

const defaultTimeout = 15 * time.Second

// Credentials authenticate a single AvaTax account. Immutable per request.
type Credentials struct {
	AccountNumber string
	LicenseKey    string
	Sandbox       bool
}

// BaseURL returns the endpoint the credentials route to.
func (c Credentials) BaseURL() string {
	if c.Sandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}

// AuditEvent describes one outbound call, success or failure. Every call
// emits exactly one of these so failures are diagnosable without reproducing
// them.
type AuditEvent struct {
	RequestID      string
	Operation      string
	RequestURI     string
	RequestBody    string
	ResponseStatus int
	ResponseBody   string
	Duration       time.Duration
	Identity       string
	OccurredAt     time.Time
}

// AuditSink consumes audit events. Implementations must not fail the calling
// flow; errors are theirs to swallow.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}

// ClientFactory builds a client from whatever the current settings are.
// Clients are cheap to construct per call; no pooling.
type ClientFactory func() *Client

// Client performs authenticated calls against the AvaTax REST v2 API.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	sink       AuditSink
	log        *zap.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithBaseURL overrides endpoint selection, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithAuditSink routes audit events to the given sink.
func WithAuditSink(sink AuditSink) Option {
	return func(c *Client) { c.sink = sink }
}

// WithLogger attaches a logger for transport-level diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log.Named("avatax.client") }
}

func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:   creds,
		baseURL: creds.BaseURL(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTransaction asks AvaTax to calculate (and, when req.Commit is set,
// permanently record) a tax transaction.
func (c *Client) CreateTransaction(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error) {
	operation := OperationCalculateTax
	if req.Type == DocumentTypeSalesInvoice {
		operation = OperationRecordTax
	}

	var resp TransactionResponse
	if err := c.do(ctx, operation, "transactions/create/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResolveAddress validates and normalizes an address.
func (c *Client) ResolveAddress(ctx context.Context, address Address) (*AddressResolution, error) {
	var resp AddressResolution
	if err := c.do(ctx, OperationVerifyAddress, "addresses/resolve/", address, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VoidTransaction cancels a previously committed transaction.
func (c *Client) VoidTransaction(ctx context.Context, req *VoidRequest) error {
	return c.do(ctx, OperationVoidTax, "transactions/void/", req, nil)
}

// TestConnection pings the calculation endpoint with minimal data to verify
// credentials. It never commits anything; the result is only whether the
// account authenticated.
func (c *Client) TestConnection(ctx context.Context, companyCode string) (bool, error) {
	req := &TransactionRequest{
		Type:         DocumentTypeSalesOrder,
		CompanyCode:  companyCode,
		Date:         time.Now().UTC().Format(DateFormat),
		CustomerCode: "99999",
		Lines: []LineItem{{
			Quantity: 1,
			Amount:   100,
			ItemCode: "connection-test",
		}},
	}

	err := c.do(ctx, OperationTestConnection, "transactions/create/", req, nil)
	if err == nil {
		return true, nil
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		switch serviceErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false, nil
		}
	}
	return false, err
}

func (c *Client) do(ctx context.Context, operation, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Op: operation, Err: err}
	}

	uri := c.baseURL + strings.TrimPrefix(path, "/")

	event := AuditEvent{
		RequestID:   uuid.NewString(),
		Operation:   operation,
		RequestURI:  uri,
		RequestBody: string(body),
		Identity:    c.creds.AccountNumber,
		OccurredAt:  time.Now().UTC(),
	}
	started := time.Now()
	outcome := "error"
	defer func() {
		event.Duration = time.Since(started)
		observeRequest(operation, outcome, event.Duration.Seconds())
		if c.sink != nil {
			// The event is emitted even when the caller's context is already
			// canceled; the sink must not inherit the cancellation.
			c.sink.Record(context.WithoutCancel(ctx), event)
		}
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: operation, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.creds.AccountNumber, c.creds.LicenseKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("avatax request failed", zap.String("operation", operation), zap.Error(err))
		return &TransportError{Op: operation, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &TransportError{Op: operation, Err: err}
	}

	event.ResponseStatus = httpResp.StatusCode
	event.ResponseBody = string(raw)

	if err := validateResponse(httpResp.StatusCode, raw); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(unwrapCancelResult(raw), out); err != nil {
			return &TransportError{Op: operation, Err: err}
		}
	}

	outcome = "ok"
	return nil
}

// validateResponse applies the shared policy before a body is handed to the
// caller: a non-200 status with an unparseable body means the service could
// not be reached in any useful sense; a parsed error object is surfaced with
// its most actionable message.
func validateResponse(status int, raw []byte) error {
	var env envelope
	parseErr := json.Unmarshal(raw, &env)

	if parseErr != nil {
		if status != http.StatusOK && status != http.StatusCreated {
			return &ServiceError{Message: "Could not connect to AvaTax.", StatusCode: status}
		}
		return &TransportError{Op: "parse_response", Err: parseErr}
	}

	if len(env.CancelTaxResult) > 0 {
		var nested envelope
		if err := json.Unmarshal(env.CancelTaxResult, &nested); err == nil {
			env = nested
		}
	}

	if env.Error != nil {
		return &ServiceError{Message: env.Error.message(), StatusCode: status}
	}
	return nil
}

// unwrapCancelResult peels off the extra nesting the void endpoint adds.
func unwrapCancelResult(raw []byte) []byte {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if len(env.CancelTaxResult) > 0 {
		return env.CancelTaxResult
	}
	return raw
}
