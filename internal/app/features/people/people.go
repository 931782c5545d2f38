// internal/app/features/people/people.go
package people

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	peoplestore "github.com/rollcallhq/rollcall/internal/app/store/people"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type personRequest struct {
	Name string `json:"name"`
}

// personID parses the {personID} route parameter.
func personID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "personID"))
	if err != nil {
		return primitive.NilObjectID, fault.New(fault.Invalid, "person id is not a valid id")
	}
	return id, nil
}

// HandleCreate adds a person to the active workspace's roster.
// POST /people
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManagePeople); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req personRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "person name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := peoplestore.New(h.DB).Create(ctx, info.WorkspaceID, req.Name)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "create person failed", err))
		return
	}

	h.Log.Info("person created",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("person_id", p.ID.Hex()),
		zap.String("created_by", info.UserID.Hex()))

	httpjson.Write(w, http.StatusCreated, p)
}

// HandleList returns the active workspace's roster. Any member may
// read it.
// GET /people
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := peoplestore.New(h.DB).ListByWorkspace(ctx, info.WorkspaceID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "list people failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// HandleGet returns one person from the roster. A person belonging to
// another workspace reads as not found.
// GET /people/{personID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	id, err := personID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := peoplestore.New(h.DB).GetByID(ctx, info.WorkspaceID, id)
	if err != nil {
		if err == peoplestore.ErrNotFound {
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "person not found"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "load person failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

// HandleRename updates a person's name.
// PUT /people/{personID}
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManagePeople); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	id, err := personID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req personRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "person name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := peoplestore.New(h.DB).Rename(ctx, info.WorkspaceID, id, req.Name)
	if err != nil {
		if err == peoplestore.ErrNotFound {
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "person not found"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "rename person failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

// HandleDelete removes a person from the roster. Attendance records
// already written for the person stay in their sessions.
// DELETE /people/{personID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManagePeople); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	id, err := personID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := peoplestore.New(h.DB).Delete(ctx, info.WorkspaceID, id); err != nil {
		if err == peoplestore.ErrNotFound {
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "person not found"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "delete person failed", err))
		return
	}

	h.Log.Info("person deleted",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("person_id", id.Hex()),
		zap.String("deleted_by", info.UserID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
