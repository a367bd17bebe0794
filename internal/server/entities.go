package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"free-rent/internal/export"
	"free-rent/internal/httpx"
	"free-rent/internal/listview"
	"free-rent/internal/models"
	"free-rent/internal/schema"
	"free-rent/internal/store"
	"free-rent/internal/validate"
)

// kindPaths are the collection names used in URLs.
var kindPaths = map[models.Kind]string{
	models.KindTenant:   "tenants",
	models.KindPet:      "pets",
	models.KindVehicle:  "vehicles",
	models.KindProperty: "properties",
	models.KindUnitType: "unit-types",
	models.KindUnit:     "units",
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func lookupTable(kind models.Kind) (*schema.Table, error) {
	return schema.Lookup(kind)
}

type entityHandler[T models.Entity] struct {
	repo      *store.Repo[T]
	validator *validate.Validator
	path      string
}

// ownerCheck fails with store.ErrNotFound when owner id does not exist.
type ownerCheck func(ctx context.Context, id uint) error

// subMount mounts routes for records owned by the entity at /{id}/...
type subMount func(s *Server, r chi.Router, owner models.Kind, exists ownerCheck) error

func mountEntity[T models.Entity](s *Server, r chi.Router, owned ...subMount) error {
	repo, err := store.NewRepo[T](s.db)
	if err != nil {
		return err
	}
	kind := repo.Table().Kind
	h := &entityHandler[T]{repo: repo, validator: s.validator, path: kindPaths[kind]}
	exists := func(ctx context.Context, id uint) error {
		_, err := repo.Get(ctx, id)
		return err
	}

	var mountErr error
	r.Route("/"+h.path, func(r chi.Router) {
		r.Get("/", httpx.WrapHttpRsp(h.list))
		r.Post("/", httpx.WrapHttpRsp(h.create))
		r.Get("/export", h.export)
		r.Get("/{id}", httpx.WrapHttpRsp(h.get))
		r.Put("/{id}", httpx.WrapHttpRsp(h.update))
		r.Delete("/{id}", httpx.WrapHttpRsp(h.delete))
		for _, m := range owned {
			if err := m(s, r, kind, exists); err != nil {
				mountErr = err
			}
		}
	})
	return mountErr
}

// ownedBy serves the records of kind C that belong to one owner, e.g.
// /tenants/{id}/pets.
func ownedBy[C models.Entity](path string) subMount {
	return func(s *Server, r chi.Router, owner models.Kind, exists ownerCheck) error {
		repo, err := store.NewRepo[C](s.db)
		if err != nil {
			return err
		}
		column := ""
		for _, ref := range repo.Table().References() {
			if ref.Table == string(owner) {
				column = ref.Column
			}
		}
		if column == "" {
			return fmt.Errorf("%s does not reference %s", repo.Table().Kind, owner)
		}
		h := &entityHandler[C]{repo: repo, validator: s.validator, path: kindPaths[repo.Table().Kind]}

		r.Get("/{id}/"+path, httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
			id, err := ownerID(r, exists)
			if err != nil {
				return nil, err
			}
			return h.listWhere(r, store.Filter{Column: column, Value: id})
		}))
		r.Post("/{id}/"+path, httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
			id, err := ownerID(r, exists)
			if err != nil {
				return nil, err
			}
			e := models.Blank[C]()
			if err := httpx.GetRequestData(r, e); err != nil {
				return nil, err
			}
			if err := repo.Table().Assign(e, column, id); err != nil {
				return nil, err
			}
			return h.insert(r, e)
		}))
		return nil
	}
}

func ownerID(r *http.Request, exists ownerCheck) (uint, error) {
	id, err := idParam(r)
	if err != nil {
		return 0, err
	}
	if err := exists(r.Context(), id); err != nil {
		return 0, err
	}
	return id, nil
}

func idParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, httpx.ErrInvalidRequest(fmt.Sprintf("invalid id %q", raw))
	}
	return uint(id), nil
}

func (h *entityHandler[T]) list(r *http.Request) (*httpx.Response, error) {
	return h.listWhere(r)
}

func (h *entityHandler[T]) listWhere(r *http.Request, filters ...store.Filter) (*httpx.Response, error) {
	rows, err := h.search(r, filters...)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: rows}, nil
}

// search lists rows and applies the column / q query parameters.
func (h *entityHandler[T]) search(r *http.Request, filters ...store.Filter) ([]T, error) {
	rows, err := h.repo.List(r.Context(), filters...)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	column := q.Get("column")
	if column == "" {
		column = listview.DefaultColumn(h.repo.Table())
	}
	rows, err = listview.Filter(h.repo.Table(), rows, column, q.Get("q"))
	if err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}
	return rows, nil
}

func (h *entityHandler[T]) get(r *http.Request) (*httpx.Response, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	e, err := h.repo.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: e}, nil
}

func (h *entityHandler[T]) create(r *http.Request) (*httpx.Response, error) {
	e := models.Blank[T]()
	if err := httpx.GetRequestData(r, e); err != nil {
		return nil, err
	}
	return h.insert(r, e)
}

func (h *entityHandler[T]) insert(r *http.Request, e T) (*httpx.Response, error) {
	e.SetID(0)
	if err := h.validator.Check(e); err != nil {
		return nil, err
	}
	id, err := h.repo.Insert(r.Context(), e)
	if err != nil {
		return nil, err
	}
	log.Ctx(r.Context()).Info().Str("kind", string(e.Kind())).Uint("id", id).Msg("created")
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   fmt.Sprintf("/api/%s/%d", h.path, id),
		Response:   e,
	}, nil
}

func (h *entityHandler[T]) update(r *http.Request) (*httpx.Response, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	e := models.New[T]()
	if err := httpx.GetRequestData(r, e); err != nil {
		return nil, err
	}
	if err := h.validator.Check(e); err != nil {
		return nil, err
	}
	if err := h.repo.Update(r.Context(), id, e); err != nil {
		return nil, err
	}
	log.Ctx(r.Context()).Info().Str("kind", string(e.Kind())).Uint("id", id).Msg("updated")
	return &httpx.Response{StatusCode: http.StatusOK, Response: e}, nil
}

func (h *entityHandler[T]) delete(r *http.Request) (*httpx.Response, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	log.Ctx(r.Context()).Info().Str("kind", string(h.repo.Table().Kind)).Uint("id", id).Msg("deleted")
	return &httpx.Response{StatusCode: http.StatusNoContent}, nil
}

func (h *entityHandler[T]) export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.search(r)
	if err != nil {
		httpx.SendError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, h.repo.Table(), rows); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("export failed")
		httpx.ErrApplicationError("unable to build spreadsheet").Send(w)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, h.path))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
