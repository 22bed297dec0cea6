package crm

// LeadSource records where a lead or contact came from
type LeadSource string

const (
	LeadSourceWebsite     LeadSource = "Website"
	LeadSourceReferral    LeadSource = "Referral"
	LeadSourceCampaign    LeadSource = "Campaign"
	LeadSourceColdCall    LeadSource = "Cold Call"
	LeadSourceTradeShow   LeadSource = "Trade Show"
	LeadSourcePartner     LeadSource = "Partner"
	LeadSourceSocialMedia LeadSource = "Social Media"
	LeadSourceBulkUpload  LeadSource = "Bulk Upload"
	LeadSourceOther       LeadSource = "Other"
)

// LeadSources lists every valid LeadSource
var LeadSources = []LeadSource{
	LeadSourceWebsite, LeadSourceReferral, LeadSourceCampaign, LeadSourceColdCall,
	LeadSourceTradeShow, LeadSourcePartner, LeadSourceSocialMedia, LeadSourceBulkUpload,
	LeadSourceOther,
}

// IsValid reports whether s is a known source
func (s LeadSource) IsValid() bool { return contains(LeadSources, s) }

// LeadStatus is the qualification state of a lead
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "New"
	LeadStatusContacted   LeadStatus = "Contacted"
	LeadStatusQualified   LeadStatus = "Qualified"
	LeadStatusUnqualified LeadStatus = "Unqualified"
	LeadStatusLost        LeadStatus = "Lost"
	LeadStatusConverted   LeadStatus = "Converted"
)

// LeadStatuses lists every valid LeadStatus
var LeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusUnqualified,
	LeadStatusLost, LeadStatusConverted,
}

// IsValid reports whether s is a known status
func (s LeadStatus) IsValid() bool { return contains(LeadStatuses, s) }

// Rating is a hot/warm/cold temperature shared by leads and accounts
type Rating string

const (
	RatingHot  Rating = "Hot"
	RatingWarm Rating = "Warm"
	RatingCold Rating = "Cold"
)

// Ratings lists every valid Rating
var Ratings = []Rating{RatingHot, RatingWarm, RatingCold}

// IsValid reports whether r is a known rating
func (r Rating) IsValid() bool { return contains(Ratings, r) }

// AccountType classifies the relationship with an account
type AccountType string

const (
	AccountTypeCustomer   AccountType = "Customer"
	AccountTypeProspect   AccountType = "Prospect"
	AccountTypePartner    AccountType = "Partner"
	AccountTypeVendor     AccountType = "Vendor"
	AccountTypeCompetitor AccountType = "Competitor"
	AccountTypeOther      AccountType = "Other"
)

// AccountTypes lists every valid AccountType
var AccountTypes = []AccountType{
	AccountTypeCustomer, AccountTypeProspect, AccountTypePartner,
	AccountTypeVendor, AccountTypeCompetitor, AccountTypeOther,
}

// IsValid reports whether t is a known account type
func (t AccountType) IsValid() bool { return contains(AccountTypes, t) }

// Stage is an ordered step of the sales pipeline
type Stage string

const (
	StageProspecting      Stage = "Prospecting"
	StageQualification    Stage = "Qualification"
	StageNeedsAnalysis    Stage = "Needs Analysis"
	StageValueProposition Stage = "Value Proposition"
	StageProposal         Stage = "Proposal/Price Quote"
	StageNegotiation      Stage = "Negotiation/Review"
	StageClosedWon        Stage = "Closed Won"
	StageClosedLost       Stage = "Closed Lost"
)

// Stages lists the pipeline in order
var Stages = []Stage{
	StageProspecting, StageQualification, StageNeedsAnalysis, StageValueProposition,
	StageProposal, StageNegotiation, StageClosedWon, StageClosedLost,
}

// IsValid reports whether s is a known stage
func (s Stage) IsValid() bool { return contains(Stages, s) }

// Order returns the position of s in the pipeline, or -1 when unknown
func (s Stage) Order() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// IsClosed reports whether s ends the pipeline
func (s Stage) IsClosed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// OpportunityType distinguishes new from existing business
type OpportunityType string

const (
	OpportunityTypeNewBusiness      OpportunityType = "New Business"
	OpportunityTypeExistingBusiness OpportunityType = "Existing Business"
	OpportunityTypeRenewal          OpportunityType = "Renewal"
)

// OpportunityTypes lists every valid OpportunityType
var OpportunityTypes = []OpportunityType{
	OpportunityTypeNewBusiness, OpportunityTypeExistingBusiness, OpportunityTypeRenewal,
}

// IsValid reports whether t is a known opportunity type
func (t OpportunityType) IsValid() bool { return contains(OpportunityTypes, t) }

// OpportunitySource is the channel an opportunity came through
type OpportunitySource string

const (
	OpportunitySourceWeb             OpportunitySource = "Web"
	OpportunitySourcePhoneInquiry    OpportunitySource = "Phone Inquiry"
	OpportunitySourcePartnerReferral OpportunitySource = "Partner Referral"
	OpportunitySourcePurchasedList   OpportunitySource = "Purchased List"
	OpportunitySourceOther           OpportunitySource = "Other"
)

// OpportunitySources lists every valid OpportunitySource
var OpportunitySources = []OpportunitySource{
	OpportunitySourceWeb, OpportunitySourcePhoneInquiry, OpportunitySourcePartnerReferral,
	OpportunitySourcePurchasedList, OpportunitySourceOther,
}

// IsValid reports whether s is a known opportunity source
func (s OpportunitySource) IsValid() bool { return contains(OpportunitySources, s) }

// RelatedType tags the kind of record a note is attached to
type RelatedType string

const (
	RelatedTypeLead        RelatedType = "Lead"
	RelatedTypeAccount     RelatedType = "Account"
	RelatedTypeContact     RelatedType = "Contact"
	RelatedTypeOpportunity RelatedType = "Opportunity"
	RelatedTypeActivity    RelatedType = "Activity"
)

// RelatedTypes lists every valid RelatedType
var RelatedTypes = []RelatedType{
	RelatedTypeLead, RelatedTypeAccount, RelatedTypeContact,
	RelatedTypeOpportunity, RelatedTypeActivity,
}

// IsValid reports whether t is a known related type
func (t RelatedType) IsValid() bool { return contains(RelatedTypes, t) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// EnumValues returns the string values of the named enum, or nil when the
// name is unknown. Names: leadsource, leadstatus, rating, accounttype, stage,
// opportunitytype, opportunitysource, relatedtype.
func EnumValues(name string) []string {
	switch name {
	case "leadsource":
		return toStrings(LeadSources)
	case "leadstatus":
		return toStrings(LeadStatuses)
	case "rating":
		return toStrings(Ratings)
	case "accounttype":
		return toStrings(AccountTypes)
	case "stage":
		return toStrings(Stages)
	case "opportunitytype":
		return toStrings(OpportunityTypes)
	case "opportunitysource":
		return toStrings(OpportunitySources)
	case "relatedtype":
		return toStrings(RelatedTypes)
	}
	return nil
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
