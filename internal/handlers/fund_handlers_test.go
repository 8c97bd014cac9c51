package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/funds"
	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/uow"
	"github.com/Werneck0live/cadastro-fundos/internal/utils"
)

/*
RODAR TODOS OS TESTES:

go test -v ./internal/handlers -count=1
*/

const validCnpj = "11222333444455"

func newServer(svc FundService) http.Handler {
	mux := http.NewServeMux()
	NewFundHandler(svc, 0).Routes(mux)
	return RequestID(mux)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func mustFund(t *testing.T, code, name string, typeID int64) *models.Fund {
	t.Helper()
	cnpj, err := models.NewCnpj(validCnpj)
	if err != nil {
		t.Fatalf("cnpj: %v", err)
	}
	f, err := models.NewFund(code, name, cnpj, typeID)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	return f
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\nbody=%s", err, rr.Body.String())
	}
	return got
}

// 1) GET /funds

func TestFunds_List(t *testing.T) {
	sm := &serviceMock{
		ListFundsFn: func(context.Context) ([]models.FundDTO, error) {
			return []models.FundDTO{
				{Code: "ITAURF123", Name: "ITAU JUROS RF +", Cnpj: validCnpj, TypeID: 1, TypeName: "RENDA FIXA", Patrimony: decimal.RequireFromString("5498731.54")},
			}, nil
		},
	}

	rr := do(t, newServer(sm), http.MethodGet, "/funds", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var got []models.FundDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\nbody=%s", err, rr.Body.String())
	}
	if len(got) != 1 || got[0].TypeName != "RENDA FIXA" || !got[0].Patrimony.Equal(decimal.RequireFromString("5498731.54")) {
		t.Fatalf("unexpected payload: %#v", got)
	}
}

func TestFunds_List_EmptyIsArray(t *testing.T) {
	sm := &serviceMock{
		ListFundsFn: func(context.Context) ([]models.FundDTO, error) { return []models.FundDTO{}, nil },
	}
	rr := do(t, newServer(sm), http.MethodGet, "/funds", "")
	if rr.Code != http.StatusOK || bytes.TrimSpace(rr.Body.Bytes())[0] != '[' {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

// Erro inesperado → 500 sem vazar detalhe, com request_id
func TestFunds_List_ServiceError(t *testing.T) {
	sm := &serviceMock{
		ListFundsFn: func(context.Context) ([]models.FundDTO, error) { return nil, errors.New("db exploded") },
	}
	rr := do(t, newServer(sm), http.MethodGet, "/funds", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusInternalServerError)
	}
	body := errorBody(t, rr)
	if body["error"] != "internal error" || body["request_id"] == "" {
		t.Fatalf("unexpected error body: %#v", body)
	}
	if body["request_id"] != rr.Header().Get(HeaderRequestID) {
		t.Fatalf("request id mismatch: body=%q header=%q", body["request_id"], rr.Header().Get(HeaderRequestID))
	}
}

// 2) GET /funds/{code}

func TestFunds_Get(t *testing.T) {
	sm := &serviceMock{
		GetFundFn: func(_ context.Context, code string) (models.FundDTO, error) {
			if code != "ITAURF999" {
				t.Fatalf("code=%q", code)
			}
			return models.FundDTO{Code: code, Patrimony: decimal.RequireFromString("500.25")}, nil
		},
	}
	rr := do(t, newServer(sm), http.MethodGet, "/funds/ITAURF999", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte(`"patrimony":"500.25"`)) {
		t.Fatalf("patrimony should be a decimal string: %s", rr.Body.String())
	}
}

func TestFunds_Get_NotFound(t *testing.T) {
	sm := &serviceMock{
		GetFundFn: func(context.Context, string) (models.FundDTO, error) { return models.FundDTO{}, funds.ErrFundNotFound },
	}
	rr := do(t, newServer(sm), http.MethodGet, "/funds/NOPE", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusNotFound)
	}
}

// 3) POST /funds

func TestFunds_Create(t *testing.T) {
	var got funds.CreateFund
	sm := &serviceMock{
		CreateFundFn: func(_ context.Context, cmd funds.CreateFund) (*models.Fund, error) {
			got = cmd
			return mustFund(t, cmd.Code, cmd.Name, cmd.TypeID), nil
		},
	}
	body := `{"code":"ITAURF999","name":"ITAU TESTE","cnpj":"11222333444455","typeId":1}`

	rr := do(t, newServer(sm), http.MethodPost, "/funds", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if rr.Header().Get("Location") != "/funds/ITAURF999" {
		t.Fatalf("location=%q", rr.Header().Get("Location"))
	}
	if got.Code != "ITAURF999" || got.TypeID != 1 || got.Cnpj != validCnpj {
		t.Fatalf("command mismatch: %#v", got)
	}
	var out FundCreatedDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil || out.Code != "ITAURF999" {
		t.Fatalf("body=%s err=%v", rr.Body.String(), err)
	}
}

func TestFunds_Create_StatusMapping(t *testing.T) {
	validation := func() error {
		_, err := models.NewCnpj("123")
		return err
	}()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validation, http.StatusBadRequest},
		{"type not found", funds.ErrFundTypeNotFound, http.StatusNotFound},
		{"duplicate", funds.ErrFundAlreadyExists, http.StatusConflict},
		{"publish failure", errors.Join(uow.ErrPublishFailed, errors.New("broker down")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sm := &serviceMock{
				CreateFundFn: func(context.Context, funds.CreateFund) (*models.Fund, error) { return nil, tc.err },
			}
			rr := do(t, newServer(sm), http.MethodPost, "/funds", `{"code":"A","name":"A","cnpj":"123","typeId":1}`)
			if rr.Code != tc.want {
				t.Fatalf("status=%d want=%d body=%s", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

// JSON inválido, campos desconhecidos e lixo após o objeto → 400 sem chamar o serviço
func TestFunds_Create_BadJSON(t *testing.T) {
	sm := &serviceMock{} // CreateFundFn não setado: se for chamado, vira 500
	for _, body := range []string{
		``,
		`{"code":`,
		`{"code":"A","foo":1}`,
		`{"code":"A","name":"A","cnpj":"11222333444455","typeId":1} {}`,
		`{"name":"A","cnpj":"11222333444455","typeId":1}`,
	} {
		rr := do(t, newServer(sm), http.MethodPost, "/funds", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d want=%d resp=%s", body, rr.Code, http.StatusBadRequest, rr.Body.String())
		}
	}
}

// typeId negativo é 400 na borda; 0 segue para o serviço (que responde 404)
func TestFunds_NegativeTypeID(t *testing.T) {
	sm := &serviceMock{}
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/funds", `{"code":"A","name":"A","cnpj":"11222333444455","typeId":-1}`},
		{http.MethodPut, "/funds/A", `{"name":"A","cnpj":"11222333444455","typeId":-1}`},
	} {
		rr := do(t, newServer(sm), tc.method, tc.path, tc.body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: status=%d want=400 body=%s", tc.method, tc.path, rr.Code, rr.Body.String())
		}
		var out map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out["error"] != "typeId must not be negative" {
			t.Fatalf("error=%q", out["error"])
		}
	}
}

// 4) PUT /funds/{code}

func TestFunds_Update(t *testing.T) {
	sm := &serviceMock{
		UpdateFundFn: func(_ context.Context, cmd funds.UpdateFund) (*models.Fund, error) {
			if cmd.Code != "ITAURF123" {
				t.Fatalf("code=%q", cmd.Code)
			}
			return mustFund(t, cmd.Code, cmd.Name, cmd.TypeID), nil
		},
	}
	rr := do(t, newServer(sm), http.MethodPut, "/funds/ITAURF123", `{"name":"NOVO","cnpj":"11222333444455","typeId":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var out FundUpdateDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Name != "NOVO" || out.TypeID != 2 || out.Cnpj != validCnpj {
		t.Fatalf("unexpected payload: %#v", out)
	}
}

func TestFunds_Update_NotFound(t *testing.T) {
	sm := &serviceMock{
		UpdateFundFn: func(context.Context, funds.UpdateFund) (*models.Fund, error) { return nil, funds.ErrFundNotFound },
	}
	rr := do(t, newServer(sm), http.MethodPut, "/funds/NOPE", `{"name":"X","cnpj":"11222333444455","typeId":1}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusNotFound)
	}
}

// 5) DELETE /funds/{code}

func TestFunds_Delete(t *testing.T) {
	called := ""
	sm := &serviceMock{
		DeleteFundFn: func(_ context.Context, code string) error { called = code; return nil },
	}
	rr := do(t, newServer(sm), http.MethodDelete, "/funds/ITAURF123", "")
	if rr.Code != http.StatusNoContent || called != "ITAURF123" {
		t.Fatalf("status=%d called=%q", rr.Code, called)
	}

	sm.DeleteFundFn = func(context.Context, string) error { return funds.ErrFundNotFound }
	rr = do(t, newServer(sm), http.MethodDelete, "/funds/ITAURF123", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusNotFound)
	}
}

// 6) PATCH /funds/{code}/patrimony

func TestFunds_AdjustPatrimony(t *testing.T) {
	for _, body := range []string{`{"patrimony":500.25}`, `{"patrimony":"500.25"}`} {
		var got decimal.Decimal
		sm := &serviceMock{
			AdjustPatrimonyFn: func(_ context.Context, code string, amount decimal.Decimal) error {
				if code != "ITAURF999" {
					t.Fatalf("code=%q", code)
				}
				got = amount
				return nil
			},
		}
		rr := do(t, newServer(sm), http.MethodPatch, "/funds/ITAURF999/patrimony", body)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("body %s: status=%d resp=%s", body, rr.Code, rr.Body.String())
		}
		if !got.Equal(decimal.RequireFromString("500.25")) {
			t.Fatalf("amount=%s", got)
		}
	}
}

func TestFunds_AdjustPatrimony_Errors(t *testing.T) {
	sm := &serviceMock{
		AdjustPatrimonyFn: func(context.Context, string, decimal.Decimal) error { return funds.ErrFundNotFound },
	}
	h := newServer(sm)

	if rr := do(t, h, http.MethodPatch, "/funds/NOPE/patrimony", `{"patrimony":-30}`); rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusNotFound)
	}
	if rr := do(t, h, http.MethodPatch, "/funds/A/patrimony", `{}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing patrimony: status=%d want=%d", rr.Code, http.StatusBadRequest)
	}
	if rr := do(t, h, http.MethodPatch, "/funds/A/patrimony", `{"patrimony":"abc"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad number: status=%d want=%d", rr.Code, http.StatusBadRequest)
	}
}

// 7) GET /fund-types e método não suportado

func TestFundTypes_List(t *testing.T) {
	sm := &serviceMock{
		ListFundTypesFn: func(context.Context) ([]models.FundType, error) {
			return []models.FundType{*models.RestoreFundType(1, "RENDA FIXA"), *models.RestoreFundType(2, "ACOES")}, nil
		},
	}
	rr := do(t, newServer(sm), http.MethodGet, "/fund-types", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var got []FundTypeDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || got[1] != (FundTypeDTO{ID: 2, Name: "ACOES"}) {
		t.Fatalf("unexpected payload: %#v", got)
	}
}

func TestFunds_MethodNotAllowed(t *testing.T) {
	rr := do(t, newServer(&serviceMock{}), http.MethodPost, "/funds/ITAURF123", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want=%d", rr.Code, http.StatusMethodNotAllowed)
	}
}

// request id do cliente é preservado e chega no contexto do serviço
func TestRequestID_Propagates(t *testing.T) {
	var seen string
	sm := &serviceMock{
		ListFundsFn: func(ctx context.Context) ([]models.FundDTO, error) {
			seen = utils.RequestID(ctx)
			return nil, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/funds", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := httptest.NewRecorder()
	newServer(sm).ServeHTTP(rr, req)

	if seen != "abc-123" || rr.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("seen=%q header=%q", seen, rr.Header().Get(HeaderRequestID))
	}
}
