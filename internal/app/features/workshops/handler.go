// internal/app/features/workshops/handler.go
package workshops

import (
	"context"
	"net/http"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	orgstore "github.com/arundhaj/broadgauge/internal/app/store/organizations"
	workshopstore "github.com/arundhaj/broadgauge/internal/app/store/workshops"
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
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Workshops *workshopstore.Store
	Orgs      *orgstore.Store
}

type detailPageData struct {
	viewdata.BaseVM
	Workshop models.Workshop
	OrgName  string
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		ErrLog:    errLog,
		Workshops: workshopstore.New(db),
		Orgs:      orgstore.New(db),
	}
}

// ServeDetail handles GET /workshops/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Workshop not found.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	workshop, err := h.Workshops.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, "Workshop not found.", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "workshop lookup failed", err, "Loading the workshop failed, please try again.", "/")
		return
	}

	var orgName string
	if org, err := h.Orgs.GetByID(ctx, workshop.OrgID); err == nil {
		orgName = org.Name
	}

	templates.Render(w, r, "workshop_detail", detailPageData{
		BaseVM:   viewdata.NewBaseVM(r, workshop.Title, "/orgs/"+workshop.OrgID.Hex()),
		Workshop: workshop,
		OrgName:  orgName,
	})
}
