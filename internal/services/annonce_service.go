package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// priceBandRatio bounds the price window used by Similar.
const priceBandRatio = 0.3

type AnnonceService struct {
	db *gorm.DB
}

func NewAnnonceService(db *gorm.DB) *AnnonceService {
	return &AnnonceService{db: db}
}

// Create publishes a listing for the given user. Agencies are capped at
// their MaxAnnonces, counted live from the annonces table.
func (s *AnnonceService) Create(user *models.User, req *dto.AnnonceCreateRequest) (*models.Annonce, error) {
	if user.Role == models.RoleAgence && user.AgencyProfile != nil {
		var count int64
		err := s.db.Model(&models.Annonce{}).
			Where("createur_id = ? AND status <> ?", user.ID, models.AnnonceExpire).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count >= int64(user.AgencyProfile.MaxAnnonces) {
			return nil, ErrQuotaExceeded
		}
	}

	annonce := models.Annonce{
		Titre:            req.Titre,
		Description:      req.Description,
		Prix:             req.Prix,
		TypeBien:         req.TypeBien,
		TypeTransaction:  req.TypeTransaction,
		Adresse:          req.Adresse,
		Ville:            req.Ville,
		CodePostal:       req.CodePostal,
		Surface:          req.Surface,
		NombreChambres:   req.NombreChambres,
		NombreSallesBain: req.NombreSallesBain,
		Etage:            req.Etage,
		Garage:           req.Garage,
		Jardin:           req.Jardin,
		Piscine:          req.Piscine,
		Climatisation:    req.Climatisation,
		Ascenseur:        req.Ascenseur,
		Status:           models.AnnonceActive,
		CreateurID:       user.ID,
		NomContact:       req.NomContact,
		TelephoneContact: req.TelephoneContact,
		EmailContact:     req.EmailContact,
		DateExpiration:   req.DateExpiration,
	}
	if len(req.Images) > 0 {
		raw, err := json.Marshal(req.Images)
		if err != nil {
			return nil, fmt.Errorf("failed to encode images: %w", err)
		}
		annonce.Images = raw
	}

	if err := s.db.Create(&annonce).Error; err != nil {
		return nil, fmt.Errorf("failed to create annonce: %w", err)
	}

	slog.Info("annonce created", "annonceId", annonce.ID, "createurId", user.ID, "typeBien", annonce.TypeBien)
	return &annonce, nil
}

// GetByID loads a listing with its creator. The view counter is incremented
// only when the viewer is identified and is not the owner, so owners can
// review their own listings without inflating the count.
func (s *AnnonceService) GetByID(id uuid.UUID, viewerID *uuid.UUID) (*models.Annonce, error) {
	var annonce models.Annonce
	err := s.db.Preload("Createur").First(&annonce, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if viewerID != nil && *viewerID != annonce.CreateurID {
		if err := s.db.Model(&annonce).UpdateColumn("vues", gorm.Expr("vues + 1")).Error; err != nil {
			slog.Warn("failed to increment view counter", "annonceId", id, "error", err)
		} else {
			annonce.Vues++
		}
	}

	return &annonce, nil
}

// Update applies a partial update. Only the owner may update a listing.
func (s *AnnonceService) Update(id, userID uuid.UUID, req *dto.AnnonceUpdateRequest) (*models.Annonce, error) {
	var annonce models.Annonce
	err := s.db.First(&annonce, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if annonce.CreateurID != userID {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	if req.Titre != nil {
		updates["titre"] = *req.Titre
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Prix != nil {
		updates["prix"] = *req.Prix
	}
	if req.TypeBien != nil {
		updates["type_bien"] = *req.TypeBien
	}
	if req.TypeTransaction != nil {
		updates["type_transaction"] = *req.TypeTransaction
	}
	if req.Adresse != nil {
		updates["adresse"] = *req.Adresse
	}
	if req.Ville != nil {
		updates["ville"] = *req.Ville
	}
	if req.CodePostal != nil {
		updates["code_postal"] = *req.CodePostal
	}
	if req.Surface != nil {
		updates["surface"] = *req.Surface
	}
	if req.NombreChambres != nil {
		updates["nombre_chambres"] = *req.NombreChambres
	}
	if req.NombreSallesBain != nil {
		updates["nombre_salles_bain"] = *req.NombreSallesBain
	}
	if req.Etage != nil {
		updates["etage"] = *req.Etage
	}
	if req.Garage != nil {
		updates["garage"] = *req.Garage
	}
	if req.Jardin != nil {
		updates["jardin"] = *req.Jardin
	}
	if req.Piscine != nil {
		updates["piscine"] = *req.Piscine
	}
	if req.Climatisation != nil {
		updates["climatisation"] = *req.Climatisation
	}
	if req.Ascenseur != nil {
		updates["ascenseur"] = *req.Ascenseur
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.NomContact != nil {
		updates["nom_contact"] = *req.NomContact
	}
	if req.TelephoneContact != nil {
		updates["telephone_contact"] = *req.TelephoneContact
	}
	if req.EmailContact != nil {
		updates["email_contact"] = *req.EmailContact
	}
	if req.DateExpiration != nil {
		updates["date_expiration"] = *req.DateExpiration
	}
	if req.Images != nil {
		raw, err := json.Marshal(req.Images)
		if err != nil {
			return nil, fmt.Errorf("failed to encode images: %w", err)
		}
		updates["images"] = raw
	}

	if len(updates) > 0 {
		if err := s.db.Model(&annonce).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update annonce: %w", err)
		}
	}

	return s.GetByID(id, nil)
}

// Delete removes a listing. Owners delete their own; admins delete any.
func (s *AnnonceService) Delete(id uuid.UUID, user *models.User) error {
	var annonce models.Annonce
	err := s.db.First(&annonce, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if annonce.CreateurID != user.ID && user.Role != models.RoleAdministrateur {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("annonce_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Delete(&annonce).Error; err != nil {
			return fmt.Errorf("failed to delete annonce: %w", err)
		}
		slog.Info("annonce deleted", "annonceId", id, "by", user.ID)
		return nil
	})
}

// Search runs the filtered listing search. Subscribed clients consume one
// search from their daily allowance; exhausted quota rejects the search.
// When no status filter is given only ACTIVE listings are returned.
func (s *AnnonceService) Search(req *dto.AnnonceSearchRequest, searcher *models.User) (dto.Page[dto.AnnonceSummary], error) {
	if searcher != nil && searcher.Role == models.RoleClientAbonne && searcher.SubscriberProfile != nil {
		if err := s.consumeSearchQuota(searcher); err != nil {
			return dto.Page[dto.AnnonceSummary]{}, err
		}
	}

	page, size := normalizePage(req.Page, req.Size)

	query := s.applyFilters(s.db.Model(&models.Annonce{}), req)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return dto.Page[dto.AnnonceSummary]{}, err
	}

	var annonces []models.Annonce
	err := s.applyFilters(s.db.Model(&models.Annonce{}), req).
		Preload("Createur").
		Order(searchOrder(req.SortBy, req.SortDirection)).
		Offset(page * size).
		Limit(size).
		Find(&annonces).Error
	if err != nil {
		return dto.Page[dto.AnnonceSummary]{}, err
	}

	return dto.NewPage(summaries(annonces), total, page, size), nil
}

func (s *AnnonceService) applyFilters(query *gorm.DB, req *dto.AnnonceSearchRequest) *gorm.DB {
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	} else {
		query = query.Where("status = ?", models.AnnonceActive)
	}
	if req.Titre != nil && *req.Titre != "" {
		query = query.Where("LOWER(titre) LIKE LOWER(?)", "%"+*req.Titre+"%")
	}
	if req.Ville != nil && *req.Ville != "" {
		query = query.Where("LOWER(ville) LIKE LOWER(?)", "%"+*req.Ville+"%")
	}
	if req.TypeBien != nil {
		query = query.Where("type_bien = ?", *req.TypeBien)
	}
	if req.TypeTransaction != nil {
		query = query.Where("type_transaction = ?", *req.TypeTransaction)
	}
	if req.PrixMin != nil {
		query = query.Where("prix >= ?", *req.PrixMin)
	}
	if req.PrixMax != nil {
		query = query.Where("prix <= ?", *req.PrixMax)
	}
	if req.SurfaceMin != nil {
		query = query.Where("surface >= ?", *req.SurfaceMin)
	}
	if req.SurfaceMax != nil {
		query = query.Where("surface <= ?", *req.SurfaceMax)
	}
	if req.NombreChambres != nil {
		query = query.Where("nombre_chambres >= ?", *req.NombreChambres)
	}
	if req.NombreSallesBain != nil {
		query = query.Where("nombre_salles_bain >= ?", *req.NombreSallesBain)
	}
	if req.Garage != nil && *req.Garage {
		query = query.Where("garage = ?", true)
	}
	if req.Jardin != nil && *req.Jardin {
		query = query.Where("jardin = ?", true)
	}
	if req.Piscine != nil && *req.Piscine {
		query = query.Where("piscine = ?", true)
	}
	if req.Climatisation != nil && *req.Climatisation {
		query = query.Where("climatisation = ?", true)
	}
	if req.Ascenseur != nil && *req.Ascenseur {
		query = query.Where("ascenseur = ?", true)
	}
	return query
}

func searchOrder(sortBy, direction string) string {
	column := "date_creation"
	switch sortBy {
	case "prix", "surface", "vues", "favoris", "ville":
		column = sortBy
	case "dateCreation", "":
	}
	dir := "DESC"
	if direction == "asc" || direction == "ASC" {
		dir = "ASC"
	}
	return column + " " + dir
}

func (s *AnnonceService) consumeSearchQuota(user *models.User) error {
	limit := user.SubscriberProfile.SubscriptionType.SearchesPerDay()
	if limit > 0 {
		today := time.Now().Truncate(24 * time.Hour)
		var count int64
		err := s.db.Model(&models.SearchEvent{}).
			Where("user_id = ? AND search_date = ?", user.ID, today).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrQuotaExceeded
		}
	}

	event := models.SearchEvent{
		UserID:     user.ID,
		SearchDate: time.Now().Truncate(24 * time.Hour),
	}
	return s.db.Create(&event).Error
}

// ListByCreator returns every listing of one user, all statuses, newest first.
func (s *AnnonceService) ListByCreator(userID uuid.UUID) ([]models.Annonce, error) {
	var annonces []models.Annonce
	err := s.db.
		Where("createur_id = ?", userID).
		Order("date_creation DESC").
		Find(&annonces).Error
	return annonces, err
}

// Popular returns the most viewed active listings.
func (s *AnnonceService) Popular(limit int) ([]dto.AnnonceSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var annonces []models.Annonce
	err := s.db.
		Preload("Createur").
		Where("status = ?", models.AnnonceActive).
		Order("vues DESC").
		Limit(limit).
		Find(&annonces).Error
	if err != nil {
		return nil, err
	}
	return summaries(annonces), nil
}

// Recent returns the active listings published within the last days.
func (s *AnnonceService) Recent(days, limit int) ([]dto.AnnonceSummary, error) {
	if days <= 0 || days > 90 {
		days = 7
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	since := time.Now().AddDate(0, 0, -days)

	var annonces []models.Annonce
	err := s.db.
		Preload("Createur").
		Where("status = ? AND date_creation >= ?", models.AnnonceActive, since).
		Order("date_creation DESC").
		Limit(limit).
		Find(&annonces).Error
	if err != nil {
		return nil, err
	}
	return summaries(annonces), nil
}

// Similar returns active listings priced within 30% of the reference,
// excluding the reference itself. Same property type ranks first, then same
// city, then smallest price distance.
func (s *AnnonceService) Similar(id uuid.UUID, limit int) ([]dto.AnnonceSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var ref models.Annonce
	err := s.db.First(&ref, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	minPrix := ref.Prix * (1 - priceBandRatio)
	maxPrix := ref.Prix * (1 + priceBandRatio)

	var annonces []models.Annonce
	err = s.db.
		Preload("Createur").
		Where("status = ? AND id <> ? AND prix BETWEEN ? AND ?", models.AnnonceActive, ref.ID, minPrix, maxPrix).
		Where("type_bien = ? OR ville = ?", ref.TypeBien, ref.Ville).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN type_bien = ? THEN 0 ELSE 1 END, CASE WHEN ville = ? THEN 0 ELSE 1 END, ABS(prix - ?)",
			Vars:               []any{ref.TypeBien, ref.Ville, ref.Prix},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&annonces).Error
	if err != nil {
		return nil, err
	}
	return summaries(annonces), nil
}

// MarkExpired flips every overdue active listing to EXPIRE. The update is a
// single statement, so running it twice is harmless.
func (s *AnnonceService) MarkExpired() (int64, error) {
	res := s.db.Model(&models.Annonce{}).
		Where("status = ? AND date_expiration IS NOT NULL AND date_expiration < ?", models.AnnonceActive, time.Now()).
		Update("status", models.AnnonceExpire)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		slog.Info("expired annonces swept", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// StartExpirationSweep runs MarkExpired on a fixed interval until ctx is done.
func (s *AnnonceService) StartExpirationSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.MarkExpired(); err != nil {
					slog.Error("expiration sweep failed", "error", err)
				}
			}
		}
	}()
}

// StatsForUser aggregates one user's listings. Price and surface averages
// cover ACTIVE listings only, and empty aggregates report 0, never null.
func (s *AnnonceService) StatsForUser(userID uuid.UUID) (*dto.AnnonceStats, error) {
	return s.stats(s.db.Model(&models.Annonce{}).Where("createur_id = ?", userID))
}

// GlobalStats aggregates every listing on the platform.
func (s *AnnonceService) GlobalStats() (*dto.AnnonceStats, error) {
	return s.stats(s.db.Model(&models.Annonce{}))
}

func (s *AnnonceService) stats(base *gorm.DB) (*dto.AnnonceStats, error) {
	var stats dto.AnnonceStats
	row := struct {
		Total          int64
		Actives        int64
		Inactives      int64
		Vendues        int64
		Louees         int64
		TotalVues      int64
		TotalFavoris   int64
		PrixMoyen      float64
		SurfaceMoyenne float64
	}{}

	err := base.Select(
		"COUNT(*) AS total, "+
			"COUNT(CASE WHEN status = ? THEN 1 END) AS actives, "+
			"COUNT(CASE WHEN status = ? THEN 1 END) AS inactives, "+
			"COUNT(CASE WHEN status = ? THEN 1 END) AS vendues, "+
			"COUNT(CASE WHEN status = ? THEN 1 END) AS louees, "+
			"COALESCE(SUM(vues), 0) AS total_vues, "+
			"COALESCE(SUM(favoris), 0) AS total_favoris, "+
			"COALESCE(AVG(CASE WHEN status = ? THEN prix END), 0) AS prix_moyen, "+
			"COALESCE(AVG(CASE WHEN status = ? THEN surface END), 0) AS surface_moyenne",
		models.AnnonceActive, models.AnnonceInactive, models.AnnonceVendu, models.AnnonceLoue,
		models.AnnonceActive, models.AnnonceActive,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats.TotalAnnonces = row.Total
	stats.AnnoncesActives = row.Actives
	stats.AnnoncesInactives = row.Inactives
	stats.AnnoncesVendues = row.Vendues
	stats.AnnoncesLouees = row.Louees
	stats.TotalVues = row.TotalVues
	stats.TotalFavoris = row.TotalFavoris
	stats.PrixMoyen = row.PrixMoyen
	stats.SurfaceMoyenne = row.SurfaceMoyenne
	return &stats, nil
}

func summaries(annonces []models.Annonce) []dto.AnnonceSummary {
	out := make([]dto.AnnonceSummary, 0, len(annonces))
	for i := range annonces {
		out = append(out, summary(&annonces[i]))
	}
	return out
}

func summary(annonce *models.Annonce) dto.AnnonceSummary {
	s := dto.AnnonceSummary{
		ID:              annonce.ID,
		Titre:           annonce.Titre,
		Prix:            annonce.Prix,
		TypeBien:        annonce.TypeBien,
		TypeTransaction: annonce.TypeTransaction,
		Ville:           annonce.Ville,
		Surface:         annonce.Surface,
		NombreChambres:  annonce.NombreChambres,
		Vues:            annonce.Vues,
		Favoris:         annonce.Favoris,
		DateCreation:    annonce.DateCreation,
		Status:          annonce.Status,
	}
	if len(annonce.Images) > 0 {
		var images []string
		if err := json.Unmarshal(annonce.Images, &images); err == nil && len(images) > 0 {
			s.PremiereImage = &images[0]
		}
	}
	if annonce.Createur != nil {
		s.CreateurNom = annonce.Createur.Prenom + " " + annonce.Createur.Nom
		s.CreateurType = string(annonce.Createur.Role)
	}
	return s
}
