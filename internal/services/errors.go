package services

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP
// statuses with errors.Is.
var (
	ErrInvalidOrder         = errors.New("invalid order")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrTableNotFound        = errors.New("table not found")
	ErrInvalidProduct       = errors.New("invalid product")
	ErrInvalidTable         = errors.New("invalid table")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientStock    = errors.New("product unavailable or insufficient stock")
	ErrOrderNotEditable     = errors.New("order can no longer be modified")
	ErrLineNotFound         = errors.New("product is not on the order")
	ErrInvalidDiscount      = errors.New("discount must be between 0 and the order total")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidTransition    = errors.New("order status does not allow this action")
	ErrPaymentNotAllowed    = errors.New("order is not completed or already settled")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidPayment       = errors.New("invalid payment request")
	ErrInsufficientAmount   = errors.New("amount received is less than the amount due")
	ErrAmountMismatch       = errors.New("electronic payment must match the amount due")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPromotionNotFound    = errors.New("promotion not found")
	ErrInvalidPromotion     = errors.New("invalid promotion")
	ErrPromotionNotUsable   = errors.New("promotion does not apply to this order")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrInvalidCustomer      = errors.New("invalid customer")
	ErrPhoneTaken           = errors.New("phone number already registered")
	ErrOrderNotPaid         = errors.New("order has not been paid")
)
