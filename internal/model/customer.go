package model

import "time"

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Child attends classes under a customer's account.
type Child struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Name       string     `json:"name"`
	BirthDate  *time.Time `json:"birth_date"`
	CreatedAt  time.Time  `json:"created_at"`
}
