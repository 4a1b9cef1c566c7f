package vette

import (
	"log"
	"net/smtp"
)

// Mailer delivers one composed notification. Transport failures are
// returned as-is; the hold flow treats them as fatal, retry belongs to
// the outbound queue.
type Mailer interface {
	Send(from string, to []string, msg []byte) error
}

// SMTPMailer hands notifications to a local MTA.
type SMTPMailer struct {
	Addr string // host:port
}

func (s *SMTPMailer) Send(from string, to []string, msg []byte) error {
	c, err := smtp.Dial(s.Addr)
	if err != nil {
		log.Println("smtp dial error")
		return err
	}
	if err := c.Mail(from); err != nil {
		log.Println("smtp mail error")
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			log.Println("smtp rcpt error")
			return err
		}
	}
	wc, err := c.Data()
	if err != nil {
		log.Println("smtp data error")
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		log.Println("smtp data write error")
		return err
	}
	if err = wc.Close(); err != nil {
		log.Println("smtp close error")
		return err
	}
	if err = c.Quit(); err != nil {
		log.Println("smtp quit error")
		return err
	}
	return nil
}
