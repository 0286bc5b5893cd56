package notification

import (
	"context"
	"fmt"
	"log"
)

// PromotionNotifier delivers the one-shot "you are now an admin"
// notification when a pending request flips to approved.
type PromotionNotifier struct {
	svc Service
}

func NewPromotionNotifier(svc Service) *PromotionNotifier {
	return &PromotionNotifier{svc: svc}
}

func (n *PromotionNotifier) PromotionApproved(ctx context.Context, userID uint, userName string) {
	message := fmt.Sprintf("Parabéns, %s! Sua solicitação foi aprovada e você agora é administrador.", userName)
	err := n.svc.Publish(ctx, Event{
		UserID:   userID,
		Title:    "Solicitação aprovada!",
		Message:  message,
		Category: CategoryPromotion,
	})
	if err != nil {
		log.Printf("⚠️ Promotion notification for user %d failed: %v", userID, err)
	}
}
