// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	organizationstore "github.com/arundhaj/broadgauge/internal/app/store/organizations"
	workshopstore "github.com/arundhaj/broadgauge/internal/app/store/workshops"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/authz"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/arundhaj/broadgauge/internal/app/system/viewdata"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Workshops  *workshopstore.Store
	Orgs       *organizationstore.Store
}

// workshopRow is one entry in the public listing.
type workshopRow struct {
	Workshop models.Workshop
	OrgName  string
}

type homePageData struct {
	viewdata.BaseVM
	Workshops []workshopRow
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Workshops:  workshopstore.New(db),
		Orgs:       organizationstore.New(db),
	}
}

// ServeRoot handles GET /. Signed-in visitors go to their dashboard;
// everyone else sees the public listing of upcoming and past workshops.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if authz.IsSignedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	workshops, err := h.Workshops.ListByStatuses(ctx, models.WorkshopConfirmed, models.WorkshopCompleted)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to list workshops", err, "Failed to load workshops.", "/")
		return
	}

	rows, err := h.joinOrgNames(ctx, workshops)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to load workshop organizations", err, "Failed to load workshops.", "/")
		return
	}

	vm := viewdata.NewBaseVM(r, "", "/")
	vm.Flashes = h.SessionMgr.TakeFlashes(w, r)

	templates.Render(w, r, "home", homePageData{BaseVM: vm, Workshops: rows})
}

func (h *Handler) joinOrgNames(ctx context.Context, workshops []models.Workshop) ([]workshopRow, error) {
	ids := make([]primitive.ObjectID, 0, len(workshops))
	for _, ws := range workshops {
		ids = append(ids, ws.OrgID)
	}
	names, err := h.Orgs.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]workshopRow, 0, len(workshops))
	for _, ws := range workshops {
		rows = append(rows, workshopRow{Workshop: ws, OrgName: names[ws.OrgID]})
	}
	return rows, nil
}
