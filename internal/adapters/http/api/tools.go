package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/garage/internal/app"
	"github.com/okian/garage/internal/domain/gearing"
	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ToolsHandler serves the calculator endpoints under /tools.
type ToolsHandler struct {
	deps      Dependencies
	maxBody   int64
	maxUpload int64
	logger    logger.Logger
}

// NewToolsHandler creates a tools handler.
func NewToolsHandler(deps Dependencies, opts ...Option) *ToolsHandler {
	h := &ToolsHandler{
		deps:      deps,
		maxBody:   defaultMaxBodyBytes,
		maxUpload: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("api")
	}
	return h
}

func (h *ToolsHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	} else {
		h.logger.Debug(r.Context(), "request rejected", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, err)
}

// TireCalc handles POST /tools/tire-pressure/calc.
func (h *ToolsHandler) TireCalc(w http.ResponseWriter, r *http.Request) {
	const op = "api.tire_calc"
	var in tirepressure.Input
	if err := decodeJSON(w, r, h.maxBody, &in); err != nil {
		h.fail(w, r, op, err)
		return
	}
	res, err := h.deps.TirePressure(r.Context(), in)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type tireBatchRequest struct {
	Items []tirepressure.Input `json:"items"`
}

type tireBatchResponse struct {
	Results []tirepressure.Result `json:"results"`
}

// TireBatch handles POST /tools/tire-pressure/batch.
func (h *ToolsHandler) TireBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.tire_batch"
	var req tireBatchRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		h.fail(w, r, op, err)
		return
	}
	if len(req.Items) == 0 {
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, errors.New("items is empty")))
		return
	}
	results, err := h.deps.TirePressureBatch(r.Context(), req.Items)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tireBatchResponse{Results: results})
}

// TireImport handles POST /tools/tire-pressure/import with an .xlsx in the
// multipart field "file". With ?format=xlsx the results come back as a
// workbook instead of JSON.
func (h *ToolsHandler) TireImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.tire_import"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(w, r, op, WrapKind(op, ErrTooLarge, err))
			return
		}
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.deps.ImportTirePressures(r.Context(), file)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	if r.URL.Query().Get("format") != "xlsx" {
		writeJSON(w, http.StatusOK, res)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.WriteImport(&buf, res); err != nil {
		h.fail(w, r, op, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="pressures.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// SuspensionCalc handles POST /tools/suspension/calc. An insufficient_input
// recommendation is still a 200.
func (h *ToolsHandler) SuspensionCalc(w http.ResponseWriter, r *http.Request) {
	const op = "api.suspension_calc"
	var in suspension.Input
	if err := decodeJSON(w, r, h.maxBody, &in); err != nil {
		h.fail(w, r, op, err)
		return
	}
	rec, err := h.deps.Suspension(r.Context(), in)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type catalogResponse struct {
	Units []model.SuspensionSpec `json:"units"`
}

// SuspensionCatalog handles GET /tools/suspension/catalog.
func (h *ToolsHandler) SuspensionCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Units: h.deps.Catalog()})
}

// gearsRequest is a Setup that may give the wheel by size and tire width
// instead of by circumference.
type gearsRequest struct {
	gearing.Setup
	Wheel       string  `json:"wheel,omitempty"`
	TireWidthMM float64 `json:"tire_width_mm,omitempty"`
	Cadence     float64 `json:"cadence,omitempty"`
}

func (g gearsRequest) setup() gearing.Setup {
	s := g.Setup
	if s.WheelCircumferenceMM <= 0 && g.Wheel != "" {
		s.WheelCircumferenceMM = gearing.Circumference(g.Wheel, g.TireWidthMM)
	}
	return s
}

type gearsResponse struct {
	WheelCircumferenceMM float64             `json:"wheel_circumference_mm"`
	Gears                []gearing.GearRatio `json:"gears"`
}

// GearsCalc handles POST /tools/gears/calc.
func (h *ToolsHandler) GearsCalc(w http.ResponseWriter, r *http.Request) {
	const op = "api.gears_calc"
	var req gearsRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		h.fail(w, r, op, err)
		return
	}
	setup := req.setup()
	gears, err := h.deps.GearRatios(r.Context(), setup, req.Cadence)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	circ := setup.WheelCircumferenceMM
	if circ <= 0 {
		circ = gearing.DefaultCircumferenceMM
	}
	writeJSON(w, http.StatusOK, gearsResponse{WheelCircumferenceMM: circ, Gears: gears})
}

type compareRequest struct {
	Current  gearsRequest `json:"current"`
	Proposed gearsRequest `json:"proposed"`
}

// GearsCompare handles POST /tools/gears/compare.
func (h *ToolsHandler) GearsCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.gears_compare"
	var req compareRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		h.fail(w, r, op, err)
		return
	}
	cmp, err := h.deps.CompareGearing(r.Context(), req.Current.setup(), req.Proposed.setup())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// CompatCheck handles POST /tools/compat/check.
func (h *ToolsHandler) CompatCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.compat_check"
	var d model.Drivetrain
	if err := decodeJSON(w, r, h.maxBody, &d); err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Compatibility(r.Context(), d))
}

// ReportPDF handles POST /tools/report/pdf. The PDF is rendered in full
// before anything is written so failures still get a JSON error.
func (h *ToolsHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_pdf"
	var req service.SheetRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		h.fail(w, r, op, err)
		return
	}
	sheet, err := h.deps.BuildSetupSheet(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.SetupSheet(r.Context(), sheet, &buf); err != nil {
		h.fail(w, r, op, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "setup-sheet.pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
