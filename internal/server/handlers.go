package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"centavo/internal/model"
	"centavo/internal/service"
	"centavo/internal/storage"
)

func (s *Server) respondJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// respondError maps domain errors onto HTTP status codes.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	var notFound *storage.NotFoundError
	var inUse *storage.CategoryInUseError
	var mismatch *storage.CategoryTypeMismatchError
	switch {
	case errors.As(err, &notFound):
		code = http.StatusNotFound
	case errors.As(err, &inUse), errors.As(err, &mismatch):
		code = http.StatusConflict
	case errors.Is(err, service.ErrUsernameTaken):
		code = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound):
		code = http.StatusNotFound
	case errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrInvalidType),
		errors.Is(err, storage.ErrInvalidAmount),
		errors.Is(err, storage.ErrInvalidDate),
		errors.Is(err, storage.ErrInvalidMonths),
		errors.Is(err, storage.ErrInvalidLimit),
		errors.Is(err, storage.ErrInvalidUserID),
		errors.Is(err, storage.ErrInvalidEntryID):
		code = http.StatusBadRequest
	default:
		s.logger.Error("unhandled error", "error", err)
		s.respondJSON(w, code, map[string]string{"error": "internal server error"})
		return
	}
	s.respondJSON(w, code, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: request body", storage.ErrEmptyString)
	}
	return nil
}

// parseAmount turns a request amount string into a decimal without going
// through float64.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", storage.ErrInvalidAmount, raw)
	}
	return amount, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", storage.ErrInvalidEntryID, name)
	}
	return id, nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	user, err := s.auth.Register(r.Context(), req.Username, req.Pin)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			s.respondError(w, err)
			return
		}
		// Validation failures from the credential package.
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	user, err := s.auth.Login(r.Context(), req.Username, req.Pin)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

type changePinRequest struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin"`
	UserID     int64  `json:"user_id"`
}

func (s *Server) handleChangePin(w http.ResponseWriter, r *http.Request) {
	var req changePinRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.auth.ChangePin(r.Context(), req.UserID, req.CurrentPin, req.NewPin); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "pin updated"})
}

type createCategoryRequest struct {
	Name   string                `json:"name"`
	Type   model.TransactionType `json:"type"`
	Color  string                `json:"color"`
	Icon   string                `json:"icon"`
	UserID *int64                `json:"user_id"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	category, err := s.repos.Categories.Create(r.Context(), model.CreateCategory{
		Name:   req.Name,
		Type:   req.Type,
		Color:  req.Color,
		Icon:   req.Icon,
		UserID: req.UserID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req model.UpdateCategory
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	category, err := s.repos.Categories.Update(r.Context(), id, req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	deleted, err := s.repos.Categories.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !deleted {
		s.respondError(w, &storage.NotFoundError{Entity: "category", ID: id})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}

	if t := r.URL.Query().Get("type"); t != "" {
		categories, err := s.repos.Categories.FindByType(r.Context(), userID, model.TransactionType(t))
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, categories)
		return
	}

	categories, err := s.repos.Categories.FindByUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	totals, err := s.repos.Categories.WithTotals(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, totals)
}

type createTransactionRequest struct {
	Amount      string                `json:"amount"`
	Type        model.TransactionType `json:"type"`
	Description *string               `json:"description"`
	Date        string                `json:"date"`
	CategoryID  int64                 `json:"category_id"`
	UserID      int64                 `json:"user_id"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.respondError(w, err)
		return
	}
	transaction, err := s.repos.Transactions.Create(r.Context(), model.CreateTransaction{
		Amount:      amount,
		Type:        req.Type,
		Description: req.Description,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		UserID:      req.UserID,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, transaction)
}

type updateTransactionRequest struct {
	Amount      *string                `json:"amount"`
	Type        *model.TransactionType `json:"type"`
	Description *string                `json:"description"`
	Date        *string                `json:"date"`
	CategoryID  *int64                 `json:"category_id"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req updateTransactionRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	data := model.UpdateTransaction{
		Type:        req.Type,
		Description: req.Description,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			s.respondError(w, err)
			return
		}
		data.Amount = &amount
	}

	transaction, err := s.repos.Transactions.Update(r.Context(), id, data)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, transaction)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}
	deleted, err := s.repos.Transactions.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !deleted {
		s.respondError(w, &storage.NotFoundError{Entity: "transaction", ID: id})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}

	q := r.URL.Query()
	filters := model.TransactionFilters{
		Type:      model.TransactionType(q.Get("type")),
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
		Search:    q.Get("search"),
	}
	if raw := q.Get("category_id"); raw != "" {
		categoryID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			s.respondError(w, fmt.Errorf("%w: category_id", storage.ErrInvalidEntryID))
			return
		}
		filters.CategoryID = categoryID
	}
	if raw := q.Get("min_amount"); raw != "" {
		amount, parseErr := parseAmount(raw)
		if parseErr != nil {
			s.respondError(w, parseErr)
			return
		}
		filters.MinAmount = &amount
	}
	if raw := q.Get("max_amount"); raw != "" {
		amount, parseErr := parseAmount(raw)
		if parseErr != nil {
			s.respondError(w, parseErr)
			return
		}
		filters.MaxAmount = &amount
	}

	transactions, err := s.repos.Transactions.FindWithFilters(r.Context(), userID, filters)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			s.respondError(w, storage.ErrInvalidLimit)
			return
		}
		limit = parsed
	}
	recent, err := s.repos.Transactions.FindRecent(r.Context(), userID, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, recent)
}

func (s *Server) handleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	q := r.URL.Query()
	summary, err := s.repos.Transactions.GetBalanceSummary(r.Context(), userID, q.Get("start"), q.Get("end"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			s.respondError(w, storage.ErrInvalidMonths)
			return
		}
		months = parsed
	}
	comparison, err := s.repos.Transactions.GetMonthlyComparison(r.Context(), userID, months)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	q := r.URL.Query()
	breakdown, err := s.repos.Transactions.GetCategoryBreakdown(r.Context(), userID,
		model.TransactionType(q.Get("type")), q.Get("start"), q.Get("end"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	settings, err := s.repos.Settings.GetOrCreate(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req model.UpdateSettings
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	settings, err := s.repos.Settings.UpdateByUser(r.Context(), userID, req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, settings)
}

// handleBackup streams the raw database image.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.Initialize(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	image, err := s.eng.Export(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="centavo-backup.db"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image)
}
