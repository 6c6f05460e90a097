//go:generate mockgen -source=../payment.go            -destination=./mock_payment.go            -package=mocks
//go:generate mockgen -source=../seat_reservation.go   -destination=./mock_seat_reservation.go   -package=mocks
//go:generate mockgen -source=../purchase_validator.go -destination=./mock_purchase_validator.go -package=mocks
//go:generate mockgen -source=../ticket_purchaser.go   -destination=./mock_ticket_purchaser.go   -package=mocks

package mocks
