package services

import (
	"testing"
	"time"

	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateEnforcesAgencyQuota(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	agence := createUser(t, db, models.RoleAgence, "agence@example.com")
	db.Model(agence.AgencyProfile).Update("max_annonces", 2)
	agence.AgencyProfile.MaxAnnonces = 2

	req := &dto.AnnonceCreateRequest{
		Titre:            "Villa avec jardin à Carthage",
		Description:      "Grande villa familiale avec jardin arboré, quartier calme et résidentiel proche de la mer.",
		Prix:             800000,
		TypeBien:         models.BienVilla,
		TypeTransaction:  models.TransactionVente,
		Adresse:          "5 rue de Carthage",
		Ville:            "Carthage",
		CodePostal:       "2016",
		NomContact:       "Agence du Lac",
		TelephoneContact: "71123456",
	}

	for i := 0; i < 2; i++ {
		_, err := svc.Create(agence, req)
		assert.NoError(t, err)
	}

	_, err := svc.Create(agence, req)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestGetByIDViewCounter(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")
	visitor := createUser(t, db, models.RoleUtilisateur, "visitor@example.com")
	annonce := createAnnonce(t, db, owner.ID, nil)

	// Anonymous view: no increment.
	got, err := svc.GetByID(annonce.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Vues)

	// Owner viewing their own listing: no increment.
	got, err = svc.GetByID(annonce.ID, &owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Vues)

	// Identified non-owner: increment.
	got, err = svc.GetByID(annonce.ID, &visitor.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.Vues)
}

func TestSearchDefaultsToActiveNewestFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	old := createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Titre = "Studio meublé proche université"
	})
	db.Model(old).UpdateColumn("date_creation", time.Now().Add(-48*time.Hour))
	recent := createAnnonce(t, db, owner.ID, nil)
	createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Status = models.AnnonceVendu
	})

	page, err := svc.Search(&dto.AnnonceSearchRequest{}, nil)

	assert.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, recent.ID, page.Content[0].ID)
	assert.Equal(t, old.ID, page.Content[1].ID)
}

func TestSearchPriceRangeIsInclusive(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.Prix = 100000 })
	createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.Prix = 200000 })
	createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.Prix = 300000 })

	min, max := 100000.0, 200000.0
	page, err := svc.Search(&dto.AnnonceSearchRequest{PrixMin: &min, PrixMax: &max}, nil)

	assert.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
	for _, a := range page.Content {
		assert.GreaterOrEqual(t, a.Prix, min)
		assert.LessOrEqual(t, a.Prix, max)
	}
}

func TestSearchConsumesSubscriberQuota(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	client := createUser(t, db, models.RoleClientAbonne, "client@example.com")

	// BASIC allows 10 searches per day; burn 9 then verify the edge.
	today := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < 9; i++ {
		db.Create(&models.SearchEvent{UserID: client.ID, SearchDate: today})
	}

	_, err := svc.Search(&dto.AnnonceSearchRequest{}, client)
	assert.NoError(t, err)

	_, err = svc.Search(&dto.AnnonceSearchRequest{}, client)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var count int64
	db.Model(&models.SearchEvent{}).Where("user_id = ?", client.ID).Count(&count)
	assert.EqualValues(t, 10, count)
}

func TestSearchUnlimitedForEnterprise(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	client := createUser(t, db, models.RoleClientAbonne, "client@example.com")
	db.Model(client.SubscriberProfile).Update("subscription_type", models.SubscriptionEnterprise)
	client.SubscriberProfile.SubscriptionType = models.SubscriptionEnterprise

	today := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < 60; i++ {
		db.Create(&models.SearchEvent{UserID: client.ID, SearchDate: today})
	}

	_, err := svc.Search(&dto.AnnonceSearchRequest{}, client)
	assert.NoError(t, err)
}

func TestRecentHonorsDayWindow(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	fresh := createAnnonce(t, db, owner.ID, nil)
	stale := createAnnonce(t, db, owner.ID, nil)
	db.Model(stale).UpdateColumn("date_creation", time.Now().AddDate(0, 0, -10))

	recent, err := svc.Recent(7, 10)

	assert.NoError(t, err)
	assert.Len(t, recent, 1)
	assert.Equal(t, fresh.ID, recent[0].ID)
}

func TestUpdateOwnerOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")
	other := createUser(t, db, models.RoleUtilisateur, "other@example.com")
	annonce := createAnnonce(t, db, owner.ID, nil)

	newPrix := 275000.0
	_, err := svc.Update(annonce.ID, other.ID, &dto.AnnonceUpdateRequest{Prix: &newPrix})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(annonce.ID, owner.ID, &dto.AnnonceUpdateRequest{Prix: &newPrix})
	assert.NoError(t, err)
	assert.Equal(t, newPrix, updated.Prix)
	// Untouched fields keep their values.
	assert.Equal(t, annonce.Titre, updated.Titre)
	assert.Equal(t, annonce.Ville, updated.Ville)
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")
	stranger := createUser(t, db, models.RoleUtilisateur, "stranger@example.com")
	admin := createUser(t, db, models.RoleAdministrateur, "admin@example.com")

	first := createAnnonce(t, db, owner.ID, nil)
	second := createAnnonce(t, db, owner.ID, nil)
	db.Create(&models.Comment{Content: "Très bel appartement", Rating: 5, AnnonceID: first.ID, UserID: stranger.ID})

	assert.ErrorIs(t, svc.Delete(first.ID, stranger), ErrForbidden)
	assert.NoError(t, svc.Delete(first.ID, owner))
	assert.NoError(t, svc.Delete(second.ID, admin))

	var comments int64
	db.Model(&models.Comment{}).Where("annonce_id = ?", first.ID).Count(&comments)
	assert.Zero(t, comments)

	assert.ErrorIs(t, svc.Delete(first.ID, owner), ErrNotFound)
}

func TestSimilarPriceBandAndOrdering(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	ref := createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Prix = 200000
		a.TypeBien = models.BienAppartement
		a.Ville = "Tunis"
	})
	sameTypeSameCity := createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Prix = 250000
		a.TypeBien = models.BienAppartement
		a.Ville = "Tunis"
	})
	sameTypeOtherCity := createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Prix = 210000
		a.TypeBien = models.BienAppartement
		a.Ville = "Sousse"
	})
	otherTypeSameCity := createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Prix = 205000
		a.TypeBien = models.BienVilla
		a.Ville = "Tunis"
	})
	// Outside the 30% band, never returned.
	createAnnonce(t, db, owner.ID, func(a *models.Annonce) {
		a.Prix = 500000
		a.TypeBien = models.BienAppartement
		a.Ville = "Tunis"
	})

	similar, err := svc.Similar(ref.ID, 10)

	assert.NoError(t, err)
	assert.Len(t, similar, 3)
	assert.Equal(t, sameTypeSameCity.ID, similar[0].ID)
	assert.Equal(t, sameTypeOtherCity.ID, similar[1].ID)
	assert.Equal(t, otherTypeSameCity.ID, similar[2].ID)
	for _, a := range similar {
		assert.NotEqual(t, ref.ID, a.ID)
	}
}

func TestMarkExpiredIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	expired := createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.DateExpiration = &past })
	fresh := createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.DateExpiration = &future })
	createAnnonce(t, db, owner.ID, nil)

	count, err := svc.MarkExpired()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	var swept models.Annonce
	assert.NoError(t, db.First(&swept, "id = ?", expired.ID).Error)
	assert.Equal(t, models.AnnonceExpire, swept.Status)

	var untouched models.Annonce
	assert.NoError(t, db.First(&untouched, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.AnnonceActive, untouched.Status)

	count, err = svc.MarkExpired()
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestStatsZeroWhenEmpty(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	stats, err := svc.StatsForUser(owner.ID)
	assert.NoError(t, err)
	assert.Zero(t, stats.TotalAnnonces)
	assert.Zero(t, stats.PrixMoyen)
	assert.Zero(t, stats.SurfaceMoyenne)
}

func TestStatsAggregates(t *testing.T) {
	db := openTestDB(t)
	svc := NewAnnonceService(db)
	owner := createUser(t, db, models.RoleAgence, "owner@example.com")

	createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.Prix = 100000; a.Vues = 3 })
	createAnnonce(t, db, owner.ID, func(a *models.Annonce) { a.Prix = 900000; a.Status = models.AnnonceVendu })

	stats, err := svc.StatsForUser(owner.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalAnnonces)
	assert.EqualValues(t, 1, stats.AnnoncesActives)
	assert.EqualValues(t, 1, stats.AnnoncesVendues)
	assert.EqualValues(t, 3, stats.TotalVues)
	// Sold listings count toward the totals but never toward the average price.
	assert.Equal(t, 100000.0, stats.PrixMoyen)

	global, err := svc.GlobalStats()
	assert.NoError(t, err)
	assert.Equal(t, 100000.0, global.PrixMoyen)
}
