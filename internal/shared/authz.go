package shared

// Dashboard permissions. Every list page has a view and an edit permission.
const (
	PermDashboardView = "dashboard.view"

	PermArticlesView     = "articles.view"
	PermArticlesEdit     = "articles.edit"
	PermBannersView      = "banners.view"
	PermBannersEdit      = "banners.edit"
	PermCategoriesView   = "categories.view"
	PermCategoriesEdit   = "categories.edit"
	PermDoctorsView      = "doctors.view"
	PermDoctorsEdit      = "doctors.edit"
	PermPromotionsView   = "promotions.view"
	PermPromotionsEdit   = "promotions.edit"
	PermFeedbackView     = "feedback.view"
	PermFeedbackEdit     = "feedback.edit"
	PermPackagesView     = "packages.view"
	PermPackagesEdit     = "packages.edit"
	PermTransactionsView = "transactions.view"
	PermTransactionsEdit = "transactions.edit"
)

// Manager roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleFinance = "finance"
	RoleViewer  = "viewer"
)

// ViewScopes lists every read permission.
func ViewScopes() []string {
	return []string{
		PermDashboardView,
		PermArticlesView,
		PermBannersView,
		PermCategoriesView,
		PermDoctorsView,
		PermPromotionsView,
		PermFeedbackView,
		PermPackagesView,
		PermTransactionsView,
	}
}

// ContentEditScopes covers catalogue and marketing content.
func ContentEditScopes() []string {
	return []string{
		PermArticlesEdit,
		PermBannersEdit,
		PermCategoriesEdit,
		PermDoctorsEdit,
		PermPromotionsEdit,
		PermFeedbackEdit,
		PermPackagesEdit,
	}
}

// RolePermissions returns the permissions granted to a role.
func RolePermissions(role string) []string {
	switch role {
	case RoleAdmin:
		perms := append(ViewScopes(), ContentEditScopes()...)
		return append(perms, PermTransactionsEdit)
	case RoleManager:
		return append(ViewScopes(), ContentEditScopes()...)
	case RoleFinance:
		return append(ViewScopes(), PermTransactionsEdit)
	case RoleViewer:
		return ViewScopes()
	default:
		return nil
	}
}
