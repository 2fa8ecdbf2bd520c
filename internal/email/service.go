package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderCreated notifies staff that an order was recorded
func (s *Service) SendOrderCreated(to, orderNumber string, total float64, items []OrderItem) error {
	subject := fmt.Sprintf("Nouvelle commande %s", orderNumber)
	body := BuildOrderCreatedBody(orderNumber, total, items)
	return s.send(to, subject, body)
}

// SendOrderDeleted notifies staff that an order was removed and stock restored
func (s *Service) SendOrderDeleted(to, orderNumber string, restored []OrderItem) error {
	subject := fmt.Sprintf("Commande %s supprimée", orderNumber)
	body := BuildOrderDeletedBody(orderNumber, restored)
	return s.send(to, subject, body)
}

// SendIntakeNotice notifies staff that a stock intake was applied
func (s *Service) SendIntakeNotice(to, productName string, addedQuantity, stockQuantity int, isNew bool) error {
	subject := fmt.Sprintf("Réception de stock : %s", productName)
	body := BuildIntakeNoticeBody(productName, addedQuantity, stockQuantity, isNew)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
