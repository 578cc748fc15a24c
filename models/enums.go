package models

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "Pending"
	InvoiceStatusVerified InvoiceStatus = "Verified"
	InvoiceStatusPaid     InvoiceStatus = "Paid"
	InvoiceStatusDisputed InvoiceStatus = "Disputed"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "Open"
	DisputeStatusResolved DisputeStatus = "Resolved"
	DisputeStatusCredited DisputeStatus = "Credited"
)

type PaymentTerms string

const (
	PaymentTermsDueOnReceipt PaymentTerms = "DueOnReceipt"
	PaymentTermsNet15        PaymentTerms = "Net15"
	PaymentTermsNet30        PaymentTerms = "Net30"
	PaymentTermsNet45        PaymentTerms = "Net45"
	PaymentTermsNet60        PaymentTerms = "Net60"
	PaymentTermsCustom       PaymentTerms = "Custom"
)

type RecommendationType string

const (
	RecommendationTypePriceIncrease RecommendationType = "price_increase"
	RecommendationTypeCheaperVendor RecommendationType = "cheaper_vendor"
	RecommendationTypeRegionalPrice RecommendationType = "regional_price"
	RecommendationTypeVolumeAnomaly RecommendationType = "volume_anomaly"
)

type RecommendationStatus string

// Open is the only non-terminal state. Dismissed and ActedOn are terminal;
// there is no transition out of either.
const (
	RecommendationStatusOpen      RecommendationStatus = "Open"
	RecommendationStatusDismissed RecommendationStatus = "Dismissed"
	RecommendationStatusActedOn   RecommendationStatus = "ActedOn"
)

type RecommendationPriority string

const (
	RecommendationPriorityHigh   RecommendationPriority = "High"
	RecommendationPriorityMedium RecommendationPriority = "Medium"
	RecommendationPriorityLow    RecommendationPriority = "Low"
)

type PriceAlertType string

const (
	PriceAlertTypeIncrease          PriceAlertType = "Increase"
	PriceAlertTypeDecrease          PriceAlertType = "Decrease"
	PriceAlertTypeContractViolation PriceAlertType = "ContractViolation"
)

type TrendDirection string

const (
	TrendDirectionUp   TrendDirection = "Up"
	TrendDirectionDown TrendDirection = "Down"
)

type CorrectionFieldType string

const (
	CorrectionFieldProductName CorrectionFieldType = "product_name"
	CorrectionFieldVendorName  CorrectionFieldType = "vendor_name"
)
