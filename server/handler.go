package server

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kohitsu/analyze"
	"kohitsu/convert"
	"kohitsu/hentaigana"
	"kohitsu/ingest"
	"kohitsu/model"
)

// Handler serves the conversion endpoints.
type Handler struct {
	conv         *convert.Converter
	l            *zap.Logger
	defaultRatio float64
	batchLimit   int
}

func NewHandler(conv *convert.Converter, l *zap.Logger, defaultRatio float64, batchLimit int) *Handler {
	if l == nil {
		l = zap.NewNop()
	}
	return &Handler{conv: conv, l: l, defaultRatio: defaultRatio, batchLimit: batchLimit}
}

func (h *Handler) request(p ConvertParam) (model.ConversionRequest, error) {
	ratio := h.defaultRatio
	if p.Ratio != nil {
		ratio = *p.Ratio
	}
	return ingest.NewRequest(p.Text, ratio, p.Seed)
}

// Convert handles POST /v1/convert.
func (h *Handler) Convert(c *gin.Context) {
	var p ConvertParam
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrRes{Errors: validationErrors(err)})
		return
	}
	req, err := h.request(p)
	if err != nil {
		h.abort(c, "text", err)
		return
	}
	res, err := h.conv.Convert(c.Request.Context(), req)
	if err != nil {
		h.abort(c, "text", err)
		return
	}
	var data ConvertResData
	c.JSON(http.StatusOK, ConvertRes{Data: *data.Of(&res, convert.Format(res)), Errors: []Err{}})
}

// ConvertBatch handles POST /v1/convert/batch.
func (h *Handler) ConvertBatch(c *gin.Context) {
	var p ConvertBatchParam
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrRes{Errors: validationErrors(err)})
		return
	}
	reqs := make([]model.ConversionRequest, 0, len(p.Items))
	for _, item := range p.Items {
		req, err := h.request(item)
		if err != nil {
			h.abort(c, "items", err)
			return
		}
		reqs = append(reqs, req)
	}
	results, err := h.conv.ConvertBatch(c.Request.Context(), reqs, h.batchLimit)
	if err != nil {
		h.abort(c, "items", err)
		return
	}
	data := make([]ConvertResData, len(results))
	for i := range results {
		data[i].Of(&results[i], convert.Format(results[i]))
	}
	c.JSON(http.StatusOK, ConvertBatchRes{Data: data, Errors: []Err{}})
}

// Variants handles GET /v1/hentaigana.
func (h *Handler) Variants(c *gin.Context) {
	table := h.conv.Table()
	bases := make([]rune, 0, len(table))
	for r := range table {
		bases = append(bases, r)
	}
	slices.Sort(bases)
	data := make([]VariantResData, 0, len(bases))
	for _, r := range bases {
		vs := make([]string, 0, len(table[r]))
		for _, v := range table[r] {
			vs = append(vs, string(v))
		}
		data = append(data, VariantResData{Base: string(r), Variants: vs})
	}
	c.JSON(http.StatusOK, VariantsRes{Data: data, Errors: []Err{}})
}

func (h *Handler) abort(c *gin.Context, field string, err error) {
	var re *analyze.ResolutionError
	switch {
	case errors.Is(err, ingest.ErrEmptyText):
		c.JSON(http.StatusBadRequest, ErrRes{Errors: []Err{EmptyText.Err(field)}})
	case errors.Is(err, hentaigana.ErrInvalidRatio):
		c.JSON(http.StatusBadRequest, ErrRes{Errors: []Err{InvalidRatio.Err("ratio")}})
	case errors.As(err, &re):
		h.l.Error("reading resolution failed", zap.String("request_id", c.GetString(RequestIDKey)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrRes{Errors: []Err{ConversionFailed.Err(field)}})
	default:
		h.l.Error("conversion failed", zap.String("request_id", c.GetString(RequestIDKey)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrRes{Errors: []Err{InternalServerError.Err("")}})
	}
}
