package domain

type Dealer struct {
	ID     int64
	UserID int64
	Name   string
	Email  string
	Phone  string
	Active bool
}
