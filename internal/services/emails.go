package services

import (
	"fmt"

	"github.com/itssafa/immoplatform/internal/mailer"
	"github.com/itssafa/immoplatform/internal/models"
)

func verificationEmail(user *models.User, baseURL string) mailer.Email {
	verifyURL := fmt.Sprintf("%s/api/auth/verify?token=%s", baseURL, *user.VerificationToken)
	body := fmt.Sprintf(
		"Bonjour %s %s,\n\n"+
			"Merci de vous être inscrit sur notre plateforme immobilière.\n"+
			"Pour activer votre compte, veuillez cliquer sur le lien suivant :\n\n"+
			"%s\n\n"+
			"Ce lien expirera dans 24 heures.\n\n"+
			"Si vous n'avez pas créé ce compte, vous pouvez ignorer cet email.\n\n"+
			"Cordialement,\n"+
			"L'équipe de la Plateforme Immobilière",
		user.Prenom, user.Nom, verifyURL,
	)
	return mailer.Email{
		To:      user.Email,
		Subject: "Vérification de votre compte - Plateforme Immobilière",
		Body:    body,
	}
}

func welcomeEmail(user *models.User, baseURL string) mailer.Email {
	body := fmt.Sprintf(
		"Bonjour %s %s,\n\n"+
			"Félicitations ! Votre compte a été vérifié avec succès.\n"+
			"Vous pouvez maintenant profiter de toutes les fonctionnalités de notre plateforme.\n\n"+
			"Connectez-vous dès maintenant : %s/login\n\n"+
			"Cordialement,\n"+
			"L'équipe de la Plateforme Immobilière",
		user.Prenom, user.Nom, baseURL,
	)
	return mailer.Email{
		To:      user.Email,
		Subject: "Bienvenue sur la Plateforme Immobilière",
		Body:    body,
	}
}

func commentNotificationEmail(owner *models.User, annonce *models.Annonce, comment *models.Comment) mailer.Email {
	body := fmt.Sprintf(
		"Bonjour %s %s,\n\n"+
			"Votre annonce \"%s\" a reçu un nouveau commentaire (note : %d/5) :\n\n"+
			"%s\n\n"+
			"Connectez-vous pour y répondre.\n\n"+
			"Cordialement,\n"+
			"L'équipe de la Plateforme Immobilière",
		owner.Prenom, owner.Nom, annonce.Titre, comment.Rating, comment.Content,
	)
	return mailer.Email{
		To:      owner.Email,
		Subject: "Nouveau commentaire sur votre annonce",
		Body:    body,
	}
}
