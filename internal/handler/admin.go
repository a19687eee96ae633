package handler

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/contact"
	"github.com/xenking/novexa-store/internal/domain/product"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeader = []string{
	"Product ID", "Name", "Price", "Status", "Category", "Main Category", "Stock", "Created Date",
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range users {
				encodeUser(e, &users[i])
			}
		})
	})
}

func (h *Handler) setUserRole(w http.ResponseWriter, r *http.Request) {
	var raw string
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "role" {
			return d.Skip()
		}
		var err error
		raw, err = d.Str()
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Unknown roles are passed through so the service rejects them after
	// the admin check.
	role, ok := access.ParseRole(raw)
	if !ok {
		role = access.Role(raw)
	}
	u, err := h.users.SetRole(r.Context(), chi.URLParam(r, "id"), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeUser(e, u) })
}

func (h *Handler) toggleUserRole(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.ToggleRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeUser(e, u) })
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.contacts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range msgs {
				encodeContact(e, &msgs[i])
			}
		})
	})
}

func (h *Handler) updateContact(w http.ResponseWriter, r *http.Request) {
	var status string
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "status" {
			return d.Skip()
		}
		var err error
		status, err = d.Str()
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.contacts.UpdateStatus(r.Context(), chi.URLParam(r, "id"), contact.Status(status)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markContactsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.contacts.MarkAllRead(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("updated", func(e *jx.Encoder) { e.Int64(n) })
		})
	})
}

// exportProducts streams the catalog as CSV, gzip-compressed when the
// gzip query parameter is set.
func (h *Handler) exportProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.catalog.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := "products_export_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	compress, _ := strconv.ParseBool(r.URL.Query().Get("gzip"))
	if compress {
		filename += ".gz"
		w.Header().Set("Content-Type", "application/gzip")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	var out io.Writer = w
	if compress {
		gz := pgzip.NewWriter(w)
		defer func() {
			if err := gz.Close(); err != nil {
				zctx.From(r.Context()).Warn("Close export gzip stream", zap.Error(err))
			}
		}()
		out = gz
	}
	if err := writeExportCSV(out, rows); err != nil {
		zctx.From(r.Context()).Warn("Write product export", zap.Error(err))
	}
}

func writeExportCSV(w io.Writer, rows []product.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, row := range rows {
		rec := []string{
			row.ID,
			row.Name,
			row.Price.StringFixed(2),
			string(row.Status),
			row.Category,
			row.MainCategory,
			strconv.FormatInt(row.Stock, 10),
			row.CreatedAt.UTC().Format(exportTimeLayout),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "write product %s", row.ID)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (h *Handler) generateDraft(w http.ResponseWriter, r *http.Request) {
	var brief string
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "brief" {
			return d.Skip()
		}
		var err error
		brief, err = d.Str()
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	draft, err := h.campaigns.GenerateDraft(r.Context(), brief)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("subject", func(e *jx.Encoder) { e.Str(draft.Subject) })
			e.Field("preheader", func(e *jx.Encoder) { e.Str(draft.Preheader) })
			e.Field("body", func(e *jx.Encoder) { e.Str(draft.Body) })
			e.Field("explanation", func(e *jx.Encoder) { e.Str(draft.Explanation) })
		})
	})
}
