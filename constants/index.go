package constants

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// Response messages
const (
	ERROR_INTERNAL_ERROR       = "Server error"
	ERROR_PARSE_DATA_TO_LOCALS = "Cannot read request data"
	DATA_INPUT_IS_NOT_NUMBER   = "Id must be a number"
	INVALID_INPUT              = "Invalid input"

	MISSING_TOKEN      = "Not authorized, no token"
	INVALID_TOKEN      = "Not authorized, token failed"
	NOT_ADMIN          = "Not authorized as an admin"
	TOO_MANY_REQUESTS  = "Too many requests, please try again later"
	ACCOUNT_NOT_ACTIVE = "Account is disabled"

	MISSING_LOGIN_INPUT      = "Email and password are required"
	INVALID_CREDENTIALS      = "Invalid email or password"
	USER_ALREADY_EXISTS      = "User already exists"
	USER_NOT_FOUND           = "User not found"
	REFRESH_TOKEN_NOT_FOUND  = "Refresh token not found"
	INVALID_REFRESH_TOKEN    = "Invalid refresh token"
	REGISTER_SUCCESS_MESSAGE = "Registration successful"

	ROOM_NOT_FOUND            = "Room not found"
	ROOM_NOT_AVAILABLE        = "Room is not available"
	ROOM_NOT_AVAILABLE_DATES  = "Room is not available for selected dates"
	ROOM_NUMBER_EXISTS        = "Room number already exists"
	ROOM_HAS_ACTIVE_BOOKINGS  = "Room has active bookings and cannot be removed"
	ROOM_REMOVED              = "Room removed"
	CHECKIN_IN_PAST           = "Check-in date cannot be in the past"
	CHECKOUT_BEFORE_CHECKIN   = "Check-out date must be after check-in date"
	ROOM_CAPACITY_FORMAT      = "Room capacity is %d guests"
	INVALID_DATE_QUERY        = "checkIn and checkOut must be dates (YYYY-MM-DD)"
	EXPORT_RANGE_TOO_LONG     = "Export range cannot exceed %d days"
	BOOKING_NOT_FOUND         = "Booking not found"
	NOT_AUTHORIZED_CANCEL     = "Not authorized to cancel this booking"
	NOT_AUTHORIZED_BOOKING    = "Not authorized to view this booking"
	CANNOT_CANCEL_COMPLETED   = "Cannot cancel completed booking"
	BOOKING_ALREADY_CANCELLED = "Booking is already cancelled"
	BOOKING_CANCELLED         = "Booking cancelled successfully"
	INVALID_STATUS            = "Invalid booking status"
	INVALID_TRANSITION_FORMAT = "Cannot change booking status from %s to %s"
	MEDIA_NOT_CONFIGURED      = "Media uploads are not configured"
)
