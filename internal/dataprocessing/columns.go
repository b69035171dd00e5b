package dataprocessing

// Accepted visits export columns
const (
	ColPayerName       = "Payer Name"
	ColMedicaidID      = "Medicaid ID"
	ColMemberFirstName = "Member First Name"
	ColMemberLastName  = "Member Last Name"
	ColVisitID         = "Visit ID"
	ColVisitDate       = "Visit Date"
	ColHCPCS           = "HCPCS"
	ColModifiers       = "Modifiers"
	ColBillableUnits   = "Billable Units"
	ColCaregiverName   = "Caregiver Name"
	ColInvoiceNumber   = "Invoice Number"
)

// Claim search export columns
const (
	ColClaimNumber = "Claim Number"
	ColClaimUnits  = "Claim Units"
	ColClaimStatus = "Claim Status"
	ColBilledDate  = "Billed Date"
)

// Columns appended to the accepted visits tab
const (
	ColBillableUnitsTotal = "Billable Units Total"
	ColPriorClaim         = "Prior Claim"
	ColPossible           = "Possible"
	ColConfirmed          = "Confirmed"
	ColOther              = "Other"
)

// Flag values
const (
	PossibleYes     = "YES"
	PossibleNo      = "NO"
	ConfirmedReview = "Review"
)

// AcceptedColumns is the projection requested from the accepted visits file.
var AcceptedColumns = []string{
	ColPayerName,
	ColMedicaidID,
	ColMemberFirstName,
	ColMemberLastName,
	ColVisitID,
	ColVisitDate,
	ColHCPCS,
	ColModifiers,
	ColBillableUnits,
	ColCaregiverName,
	ColInvoiceNumber,
}

// ClaimColumns is the projection requested from the claim search file.
var ClaimColumns = []string{
	ColVisitID,
	ColClaimNumber,
	ColClaimUnits,
	ColClaimStatus,
	ColBilledDate,
}

// AnnotationColumns are written by the reconciliation stages, in this order.
var AnnotationColumns = []string{
	ColBillableUnitsTotal,
	ColPriorClaim,
	ColPossible,
	ColConfirmed,
	ColOther,
}

// InvestigationColumns are left blank for the reviewer to fill in.
var InvestigationColumns = []string{
	"Assigned To",
	"Date Reviewed",
	"Findings",
	"Action Taken",
	"Void Claim Number",
	"Rebill Claim Number",
	"Date Resolved",
	"Notes",
}

// GroupKeyColumns make up the billing-unit group key, in concatenation order.
var GroupKeyColumns = []string{
	ColMedicaidID,
	ColMemberFirstName,
	ColMemberLastName,
	ColHCPCS,
	ColModifiers,
	ColVisitDate,
}

func concatColumns(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
