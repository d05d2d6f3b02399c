package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dp-catalog/internal/catalog"
	"dp-catalog/internal/model"
)

const relatedLimit = 4

type categorySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	ItemCount   int    `json:"itemCount"`
}

type productDetail struct {
	Product model.ListedItem   `json:"product"`
	Related []model.ListedItem `json:"related"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.catalog.Categories()
	out := make([]categorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, categorySummary{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Image:       c.Image,
			ItemCount:   len(c.Items),
		})
	}
	writeData(w, r, out)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Category(mux.Vars(r)["id"])
	if err != nil {
		s.catalogError(w, r, err, "Category not found")
		return
	}
	writeData(w, r, cat)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.catalog.Query(catalog.Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		SortBy:   catalog.ParseSortField(q.Get("sort")),
		Order:    catalog.ParseSortOrder(q.Get("order")),
	})
	writeData(w, r, items)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	item, err := s.catalog.Item(mux.Vars(r)["slug"])
	if err != nil {
		s.catalogError(w, r, err, "Product not found")
		return
	}
	writeData(w, r, productDetail{Product: item, Related: s.catalog.Related(item, relatedLimit)})
}

func (s *Server) catalogError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, notFound)
		return
	}
	s.logger.Error("catalog lookup", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
