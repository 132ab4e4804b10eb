package i18n

// translations maps locale to message key to text.
var translations = map[Language]map[string]string{
	EnglishUS: {
		"app.name": "Oremus",

		"nav.home":     "Home",
		"nav.groups":   "Groups",
		"nav.settings": "Settings",

		"home.title":    "Prayer Dashboard",
		"home.latest":   "Latest Prayers",
		"home.view_all": "View All",

		"groups.title":  "Prayer Groups",
		"groups.create": "Create Group",
		"groups.join":   "Join Group",
		"groups.empty":  "You're not part of any groups yet",

		"settings.title":                 "Settings",
		"settings.appearance":            "Appearance",
		"settings.dark_mode":             "Dark Mode",
		"settings.dark_mode.desc":        "Switch between light and dark themes",
		"settings.color_theme":           "Color Theme",
		"settings.color_theme.desc":      "Choose your preferred color theme",
		"settings.language":              "Language",
		"settings.language.desc":         "Choose your preferred language",
		"settings.notifications":         "Notifications",
		"settings.prayer_reminders":      "Prayer Reminders",
		"settings.prayer_reminders.desc": "Receive notifications for prayer reminders",
		"settings.group_updates":         "Group Updates",
		"settings.group_updates.desc":    "Receive notifications for new group prayer requests",
		"settings.sign_out":              "Sign Out",

		"prayer.create":      "New Prayer Request",
		"prayer.title":       "Title",
		"prayer.description": "Description",
		"prayer.group":       "Group",
		"prayer.created":     "Prayer request created",

		"language.changed": "Language changed to English",
	},
	PortugueseBR: {
		"app.name": "Oremus",

		"nav.home":     "Início",
		"nav.groups":   "Grupos",
		"nav.settings": "Configurações",

		"home.title":    "Painel de Oração",
		"home.latest":   "Orações Recentes",
		"home.view_all": "Ver Todos",

		"groups.title":  "Grupos de Oração",
		"groups.create": "Criar Grupo",
		"groups.join":   "Entrar em Grupo",
		"groups.empty":  "Você ainda não participa de nenhum grupo",

		"settings.title":                 "Configurações",
		"settings.appearance":            "Aparência",
		"settings.dark_mode":             "Modo Escuro",
		"settings.dark_mode.desc":        "Alternar entre temas claro e escuro",
		"settings.color_theme":           "Tema de Cor",
		"settings.color_theme.desc":      "Escolha seu tema de cor preferido",
		"settings.language":              "Idioma",
		"settings.language.desc":         "Escolha seu idioma preferido",
		"settings.notifications":         "Notificações",
		"settings.prayer_reminders":      "Lembretes de Oração",
		"settings.prayer_reminders.desc": "Receber notificações para lembretes de oração",
		"settings.group_updates":         "Atualizações de Grupo",
		"settings.group_updates.desc":    "Receber notificações para novos pedidos de oração do grupo",
		"settings.sign_out":              "Sair",

		"prayer.create":      "Novo Pedido de Oração",
		"prayer.title":       "Título",
		"prayer.description": "Descrição",
		"prayer.group":       "Grupo",
		"prayer.created":     "Pedido de oração criado",

		"language.changed": "Idioma alterado para Português",
	},
}
