package ranking

import (
	"fmt"
	"math"
)

// Language selects the locale of division change messages.
type Language string

const (
	French  Language = "fr"
	Spanish Language = "es"
	English Language = "en"
)

// Message is what a notification sink needs to tell a player about a division change.
type Message struct {
	PlayerID string `json:"player_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

type messageTemplate struct {
	promotionTitle  string
	promotionBody   string
	relegationTitle string
	relegationBody  string
}

var messageTemplates = map[Language]messageTemplate{
	French: {
		promotionTitle:  "Promotion de division ! 🎉",
		promotionBody:   "Félicitations ! Vous êtes maintenant %s avec %d points !",
		relegationTitle: "Changement de division",
		relegationBody:  "Vous êtes maintenant %s avec %d points. Continuez vos efforts !",
	},
	Spanish: {
		promotionTitle:  "¡Promoción de división! 🎉",
		promotionBody:   "¡Felicidades! ¡Ahora eres %s con %d puntos!",
		relegationTitle: "Cambio de división",
		relegationBody:  "Ahora eres %s con %d puntos. ¡Sigue esforzándote!",
	},
	English: {
		promotionTitle:  "Division promotion! 🎉",
		promotionBody:   "Congratulations! You are now %s with %d points!",
		relegationTitle: "Division change",
		relegationBody:  "You are now %s with %d points. Keep up the effort!",
	},
}

// ParseLanguage returns the matching Language, falling back to French.
func ParseLanguage(s string) Language {
	if _, ok := messageTemplates[Language(s)]; ok {
		return Language(s)
	}
	return French
}

// DivisionChangeMessage renders the notification for a division change.
func DivisionChangeMessage(change DivisionChange, newRating float64, lang Language) Message {
	tmpl := messageTemplates[ParseLanguage(string(lang))]
	points := int(math.Round(newRating))
	msg := Message{PlayerID: change.PlayerID}
	if change.IsPromotion {
		msg.Title = tmpl.promotionTitle
		msg.Body = fmt.Sprintf(tmpl.promotionBody, change.NewDivision.Name, points)
	} else {
		msg.Title = tmpl.relegationTitle
		msg.Body = fmt.Sprintf(tmpl.relegationBody, change.NewDivision.Name, points)
	}
	return msg
}
