package models

// Status enums are persisted as strings. Each lifecycle has an explicit
// transition table; anything not listed is rejected as an illegal move.

type ProductStatus string

const (
	ProductActive          ProductStatus = "Active"
	ProductInactive        ProductStatus = "Inactive"
	ProductOutOfStock      ProductStatus = "OutOfStock"
	ProductDiscontinued    ProductStatus = "Discontinued"
	ProductPendingApproval ProductStatus = "PendingApproval"
)

var productTransitions = map[ProductStatus][]ProductStatus{
	ProductPendingApproval: {ProductActive, ProductInactive},
	ProductActive:          {ProductInactive, ProductOutOfStock, ProductDiscontinued},
	ProductInactive:        {ProductActive, ProductDiscontinued},
	ProductOutOfStock:      {ProductActive, ProductInactive, ProductDiscontinued},
	ProductDiscontinued:    {},
}

func (s ProductStatus) CanTransition(next ProductStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range productTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderConfirmed  OrderStatus = "Confirmed"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderRefunded   OrderStatus = "Refunded"
	OrderDisputed   OrderStatus = "Disputed"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled, OrderDisputed},
	OrderConfirmed:  {OrderProcessing, OrderCancelled, OrderDisputed},
	OrderProcessing: {OrderShipped, OrderCancelled, OrderDisputed},
	OrderShipped:    {OrderDelivered, OrderDisputed},
	OrderDelivered:  {OrderRefunded, OrderDisputed},
	OrderDisputed:   {OrderRefunded, OrderCancelled, OrderDelivered},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

// CanTransition reports whether moving to next is allowed. A repeated
// identical status is allowed so retried updates stay idempotent.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "Pending"
	PaymentAuthorized        PaymentStatus = "Authorized"
	PaymentPaid              PaymentStatus = "Paid"
	PaymentFailed            PaymentStatus = "Failed"
	PaymentRefunded          PaymentStatus = "Refunded"
	PaymentPartiallyRefunded PaymentStatus = "PartiallyRefunded"
)

// Payment progresses independently of the order status axis.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:           {PaymentAuthorized, PaymentPaid, PaymentFailed},
	PaymentAuthorized:        {PaymentPaid, PaymentFailed, PaymentRefunded},
	PaymentPaid:              {PaymentRefunded, PaymentPartiallyRefunded},
	PaymentPartiallyRefunded: {PaymentRefunded},
	PaymentFailed:            {PaymentPending},
	PaymentRefunded:          {},
}

func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type RFQStatus string

const (
	RFQDraft      RFQStatus = "Draft"
	RFQPublished  RFQStatus = "Published"
	RFQResponding RFQStatus = "Responding"
	RFQAwarded    RFQStatus = "Awarded"
	RFQExpired    RFQStatus = "Expired"
	RFQCancelled  RFQStatus = "Cancelled"
)

var rfqTransitions = map[RFQStatus][]RFQStatus{
	RFQDraft:      {RFQPublished, RFQCancelled},
	RFQPublished:  {RFQResponding, RFQAwarded, RFQExpired, RFQCancelled},
	RFQResponding: {RFQAwarded, RFQExpired, RFQCancelled},
	RFQAwarded:    {},
	RFQExpired:    {},
	RFQCancelled:  {},
}

func (s RFQStatus) CanTransition(next RFQStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range rfqTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsResponses reports whether suppliers may still submit offers.
func (s RFQStatus) AcceptsResponses() bool {
	return s == RFQPublished || s == RFQResponding
}

type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "Open"
	DisputeUnderReview DisputeStatus = "UnderReview"
	DisputeResolved    DisputeStatus = "Resolved"
	DisputeClosed      DisputeStatus = "Closed"
)

var disputeTransitions = map[DisputeStatus][]DisputeStatus{
	DisputeOpen:        {DisputeUnderReview, DisputeResolved, DisputeClosed},
	DisputeUnderReview: {DisputeResolved, DisputeClosed},
	DisputeResolved:    {DisputeClosed},
	DisputeClosed:      {},
}

func (s DisputeStatus) CanTransition(next DisputeStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range disputeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type EscrowStatus string

const (
	EscrowPending  EscrowStatus = "Pending"
	EscrowFunded   EscrowStatus = "Funded"
	EscrowReleased EscrowStatus = "Released"
	EscrowRefunded EscrowStatus = "Refunded"
)

var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowPending:  {EscrowFunded, EscrowRefunded},
	EscrowFunded:   {EscrowReleased, EscrowRefunded},
	EscrowReleased: {},
	EscrowRefunded: {},
}

func (s EscrowStatus) CanTransition(next EscrowStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type AssuranceStatus string

const (
	AssuranceActive   AssuranceStatus = "Active"
	AssuranceClaimed  AssuranceStatus = "Claimed"
	AssuranceResolved AssuranceStatus = "Resolved"
	AssuranceExpired  AssuranceStatus = "Expired"
)

var assuranceTransitions = map[AssuranceStatus][]AssuranceStatus{
	AssuranceActive:   {AssuranceClaimed, AssuranceExpired},
	AssuranceClaimed:  {AssuranceResolved},
	AssuranceResolved: {},
	AssuranceExpired:  {},
}

func (s AssuranceStatus) CanTransition(next AssuranceStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range assuranceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type KYCStatus string

const (
	KYCPending  KYCStatus = "Pending"
	KYCApproved KYCStatus = "Approved"
	KYCRejected KYCStatus = "Rejected"
)

type MessageType string

const (
	MessageGeneral     MessageType = "general"
	MessageNegotiation MessageType = "negotiation"
	MessageDispute     MessageType = "dispute"
	MessageSupport     MessageType = "support"
	MessageSystem      MessageType = "system"
)

type DisputeType string

const (
	DisputeQuality       DisputeType = "quality"
	DisputeDelivery      DisputeType = "delivery"
	DisputePayment       DisputeType = "payment"
	DisputeCommunication DisputeType = "communication"
	DisputeOther         DisputeType = "other"
)
