package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/funds"
	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/utils"
)

type FundService interface {
	CreateFund(ctx context.Context, cmd funds.CreateFund) (*models.Fund, error)
	UpdateFund(ctx context.Context, cmd funds.UpdateFund) (*models.Fund, error)
	DeleteFund(ctx context.Context, code string) error
	AdjustPatrimony(ctx context.Context, code string, amount decimal.Decimal) error
	GetFund(ctx context.Context, code string) (models.FundDTO, error)
	ListFunds(ctx context.Context) ([]models.FundDTO, error)
	ListFundTypes(ctx context.Context) ([]models.FundType, error)
}

const defaultTimeout = 5 * time.Second

type FundHandler struct {
	Svc     FundService
	Timeout time.Duration
}

func NewFundHandler(svc FundService, timeout time.Duration) *FundHandler {
	return &FundHandler{Svc: svc, Timeout: timeout}
}

func (h *FundHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /funds", h.List)
	mux.HandleFunc("POST /funds", h.Create)
	mux.HandleFunc("GET /funds/{code}", h.Get)
	mux.HandleFunc("PUT /funds/{code}", h.Update)
	mux.HandleFunc("DELETE /funds/{code}", h.Delete)
	mux.HandleFunc("PATCH /funds/{code}/patrimony", h.AdjustPatrimony)
	mux.HandleFunc("GET /fund-types", h.ListFundTypes)
}

func (h *FundHandler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	t := h.Timeout
	if t <= 0 {
		t = defaultTimeout
	}
	return context.WithTimeout(r.Context(), t)
}

func (h *FundHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *FundHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	list, err := h.Svc.ListFunds(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *FundHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	dto, err := h.Svc.GetFund(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto)
}

func (h *FundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto FundCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		badRequest(w, r, utils.FormatUnknownFieldError(err))
		return
	}
	if err := validateCreateDTO(dto); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()
	f, err := h.Svc.CreateFund(ctx, funds.CreateFund{
		Code:   dto.Code,
		Name:   dto.Name,
		Cnpj:   dto.Cnpj,
		TypeID: dto.TypeID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/funds/"+url.PathEscape(f.Code()))
	utils.WriteJSON(w, http.StatusCreated, FundCreatedDTO{Code: f.Code()})
}

func (h *FundHandler) Update(w http.ResponseWriter, r *http.Request) {
	var dto FundUpdateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		badRequest(w, r, utils.FormatUnknownFieldError(err))
		return
	}
	if err := validateUpdateDTO(dto); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()
	f, err := h.Svc.UpdateFund(ctx, funds.UpdateFund{
		Code:   r.PathValue("code"),
		Name:   dto.Name,
		Cnpj:   dto.Cnpj,
		TypeID: dto.TypeID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, FundUpdateDTO{
		Name:   f.Name(),
		Cnpj:   f.Cnpj().Value(),
		TypeID: f.TypeID(),
	})
}

func (h *FundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Svc.DeleteFund(ctx, r.PathValue("code")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FundHandler) AdjustPatrimony(w http.ResponseWriter, r *http.Request) {
	var dto PatrimonyDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		badRequest(w, r, utils.FormatUnknownFieldError(err))
		return
	}
	if err := validatePatrimonyDTO(dto); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()
	if err := h.Svc.AdjustPatrimony(ctx, r.PathValue("code"), *dto.Patrimony); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FundHandler) ListFundTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	types, err := h.Svc.ListFundTypes(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]FundTypeDTO, 0, len(types))
	for i := range types {
		out = append(out, FundTypeDTO{ID: types[i].ID(), Name: types[i].Name()})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}
