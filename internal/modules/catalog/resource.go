package catalog

import (
	"context"
	"errors"
	"net/http"

	"hotel/internal/domain"
	"hotel/internal/middleware"
	"hotel/internal/modules/access"
	"hotel/internal/pkg/response"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"

	"github.com/gin-gonic/gin"
)

// ErrInUse is returned by a delete hook when live records still depend on the row.
var ErrInUse = errors.New("record is in use")

const MsgDuplicate = "A record with these values already exists."

// entity ties a model type to its pointer so the handler can reach the
// embedded domain.Model.
type entity[T any] interface {
	*T
	domain.Entity
}

// Hooks carry the per-resource rules. Nil hooks are skipped.
type Hooks[T any] struct {
	// Prepare runs after binding and before the write. old is nil on create.
	Prepare func(ctx context.Context, old, v *T) error
	// BeforeDelete runs before both soft and hard delete.
	BeforeDelete func(ctx context.Context, id int64) error
}

type Config[T any] struct {
	Resource access.Resource
	Path     string
	Label    string
	Hooks    Hooks[T]
	// Operations limits the mounted endpoints. Empty means all of them.
	Operations []access.Operation
}

// Resource serves the CRUD and soft-delete endpoints of one table.
type Resource[T any, PT entity[T]] struct {
	cfg   Config[T]
	store *repository.Store[T]
	ops   map[access.Operation]bool
}

func New[T any, PT entity[T]](store *repository.Store[T], cfg Config[T]) *Resource[T, PT] {
	ops := cfg.Operations
	if len(ops) == 0 {
		ops = []access.Operation{
			access.OpList, access.OpRetrieve, access.OpCreate, access.OpUpdate,
			access.OpDestroy, access.OpListDeleted, access.OpRestore, access.OpHardDelete,
		}
	}
	enabled := make(map[access.Operation]bool, len(ops))
	for _, op := range ops {
		enabled[op] = true
	}
	if cfg.Label == "" {
		cfg.Label = string(cfg.Resource)
	}
	return &Resource[T, PT]{cfg: cfg, store: store, ops: enabled}
}

func (r *Resource[T, PT]) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group(r.cfg.Path)
	mount := func(op access.Operation, method, path string, h gin.HandlerFunc) {
		if r.ops[op] {
			g.Handle(method, path, middleware.RequirePermission(r.cfg.Resource, op), h)
		}
	}

	mount(access.OpList, http.MethodGet, "", r.list)
	mount(access.OpCreate, http.MethodPost, "", r.create)
	mount(access.OpListDeleted, http.MethodGet, "/soft-delete", r.listDeleted)
	mount(access.OpRetrieve, http.MethodGet, "/:id", r.retrieve)
	mount(access.OpUpdate, http.MethodPut, "/:id", r.update)
	mount(access.OpUpdate, http.MethodPatch, "/:id", r.update)
	mount(access.OpDestroy, http.MethodDelete, "/:id", r.destroy)
	mount(access.OpRestore, http.MethodPost, "/:id/restore", r.restore)
	mount(access.OpHardDelete, http.MethodDelete, "/:id/hard-delete", r.hardDelete)
}

func (r *Resource[T, PT]) list(c *gin.Context) {
	page := response.PageQuery(c)
	items, total, err := r.store.List(c.Request.Context(), page)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.List(c, items, total, page)
}

func (r *Resource[T, PT]) listDeleted(c *gin.Context) {
	page := response.PageQuery(c)
	items, total, err := r.store.ListDeleted(c.Request.Context(), page)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.List(c, items, total, page)
}

func (r *Resource[T, PT]) retrieve(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	v, err := r.store.Get(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (r *Resource[T, PT]) create(c *gin.Context) {
	v := new(T)
	if err := c.ShouldBindJSON(v); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	*PT(v).Base() = domain.Model{}

	ctx := c.Request.Context()
	if err := r.prepare(ctx, nil, v); err != nil {
		r.fail(c, err)
		return
	}
	if err := r.store.Create(ctx, v); err != nil {
		r.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

// update binds the body over the stored row, so absent fields keep their
// values for both PUT and PATCH.
func (r *Resource[T, PT]) update(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	old, err := r.store.Get(ctx, id)
	if err != nil {
		r.fail(c, err)
		return
	}

	v := new(T)
	*v = *old
	if err := c.ShouldBindJSON(v); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	*PT(v).Base() = *PT(old).Base()

	if err := r.prepare(ctx, old, v); err != nil {
		r.fail(c, err)
		return
	}
	if err := r.store.Update(ctx, v); err != nil {
		r.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (r *Resource[T, PT]) destroy(c *gin.Context) {
	r.remove(c, r.store.SoftDelete)
}

func (r *Resource[T, PT]) hardDelete(c *gin.Context) {
	r.remove(c, r.store.HardDelete)
}

func (r *Resource[T, PT]) remove(c *gin.Context, del func(ctx context.Context, id int64) error) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if hook := r.cfg.Hooks.BeforeDelete; hook != nil {
		if err := hook(ctx, id); err != nil {
			r.fail(c, err)
			return
		}
	}
	if err := del(ctx, id); err != nil {
		r.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Resource[T, PT]) restore(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := r.store.Restore(c.Request.Context(), id); err != nil {
		r.fail(c, err)
		return
	}
	response.Restored(c, r.cfg.Label)
}

func (r *Resource[T, PT]) prepare(ctx context.Context, old, v *T) error {
	if r.cfg.Hooks.Prepare == nil {
		return nil
	}
	return r.cfg.Hooks.Prepare(ctx, old, v)
}

func (r *Resource[T, PT]) fail(c *gin.Context, err error) {
	var fieldErrs validator.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationFailed(c, fieldErrs)
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, "Not found.")
	case errors.Is(err, repository.ErrNotDeleted):
		response.NotDeleted(c, r.cfg.Label)
	case errors.Is(err, repository.ErrDuplicate):
		response.ValidationFailed(c, validator.FieldErrors{validator.NonField: MsgDuplicate})
	case errors.Is(err, ErrInUse):
		response.Conflict(c, "Cannot delete "+r.cfg.Label+": it is in use")
	case errors.Is(err, repository.ErrReferenced):
		response.Conflict(c, "Other records still reference this "+r.cfg.Label)
	default:
		response.Internal(c, err)
	}
}
