// internal/app/features/trainers/handler.go
package trainers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	"github.com/arundhaj/broadgauge/internal/app/system/htmlsanitize"
	"github.com/arundhaj/broadgauge/internal/app/system/paging"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/arundhaj/broadgauge/internal/app/system/viewdata"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Trainers *trainerstore.Store
}

type listPageData struct {
	viewdata.BaseVM
	Trainers []models.Trainer
	Start    int
	PrevURL  string
	NextURL  string
}

type detailPageData struct {
	viewdata.BaseVM
	Trainer models.Trainer
	BioHTML template.HTML
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Trainers: trainerstore.New(db),
	}
}

// ServeList handles GET /trainers. The list is paged with a 1-based
// "start" query parameter and one look-ahead row to detect a next page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	start := paging.ParseStart(r)
	list, err := h.Trainers.ListPage(ctx, int64(start-1), paging.LimitPlusOne())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainer list failed", err, "Loading trainers failed, please try again.", "/")
		return
	}

	page := paging.Trim(&list, start)
	data := listPageData{
		BaseVM:   viewdata.NewBaseVM(r, "Trainers", "/"),
		Trainers: list,
		Start:    start,
	}
	if page.HasNext {
		data.NextURL = fmt.Sprintf("/trainers?start=%d", start+paging.PageSize)
	}
	if page.HasPrev {
		data.PrevURL = fmt.Sprintf("/trainers?start=%d", paging.PrevStart(start))
	}

	templates.Render(w, r, "trainer_list", data)
}

// ServeDetail handles GET /trainers/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Trainer not found.", "/trainers")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	trainer, err := h.Trainers.GetByUserID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, "Trainer not found.", "/trainers")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "trainer lookup failed", err, "Loading the trainer failed, please try again.", "/trainers")
		return
	}

	templates.Render(w, r, "trainer_detail", detailPageData{
		BaseVM:  viewdata.NewBaseVM(r, trainer.Name, "/trainers"),
		Trainer: trainer,
		BioHTML: htmlsanitize.SanitizeHTML(trainer.Bio),
	})
}
