package config

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Channel defaults
	DefaultChannelHandle = "@SyberSc71"
	DefaultChannelURL    = "https://t.me/SyberSc71"
	DefaultPremiumURL    = "https://t.me/WAT4F"
	DefaultGroupTrigger  = "cyber"

	// Gemini defaults
	DefaultGeminiModel       = "gemini-1.5-flash"
	DefaultGeminiVisionModel = "gemini-1.5-flash"
	DefaultMaxRetries        = 2
	DefaultRetryDelaySeconds = 5
	DefaultTimeoutSeconds    = 30

	// Store defaults
	DefaultStorePath     = "bot_data.json"
	DefaultRetentionDays = 30

	// Scheduler defaults
	DefaultReplySweepSchedule       = "0 * * * *" // hourly
	DefaultCounterRetentionSchedule = "30 3 * * *"
	DefaultGroupCleanupSchedule     = "0 4 * * 0" // weekly
)

// DefaultMessages holds the stock Arabic strings the bot ships with.
var DefaultMessages = Messages{
	Welcome: "مرحباً بك %s في بوت المساعد الذكي للطلاب! 👋\n\n" +
		"يمكنني مساعدتك في:\n" +
		"- الإجابة على الأسئلة الأكاديمية\n" +
		"- شرح المفاهيم المعقدة\n" +
		"- تحليل الصور وشرح محتواها\n" +
		"- المساعدة في حل المسائل\n" +
		"- تقديم نصائح للدراسة\n\n" +
		"يمكنك إرسال سؤال نصي أو صورة وسأقوم بمساعدتك! 📚✨",
	JoinPrompt: "عذراً! يجب عليك الاشتراك في قناتنا أولاً للاستمرار.\n" +
		"اشترك ثم اضغط على زر التحقق 👇 أو اضغط /start",
	JoinButton:   "اشترك في القناة 📢",
	VerifyButton: "تحقق من الاشتراك ✅",
	Banned:       "عذراً، تم حظرك من استخدام البوت.",
	HistoryReset: "تم بدء محادثة جديدة! كيف يمكنني مساعدتك؟",
	ResetButton:  "🔄 محادثة جديدة",
	QuotaExceeded: "عذراً، لقد وصلت للحد الأقصى من الصور المسموح بها يومياً (5 صور).\n" +
		"للحصول على استخدام غير محدود، يرجى الترقية إلى العضوية المميزة.",
	PremiumButton:      "⭐️ الترقية للعضوية المميزة",
	ContactAdminButton: "💬 تواصل مع الأدمن",
	NetworkError:       "عذراً، حدث خطأ في معالجة طلبك. الرجاء المحاولة مرة أخرى.",
	GeneralError:       "عذراً، حدث خطأ ما. الرجاء المحاولة مرة أخرى.",
	NotAuthorized:      "هذا الأمر متاح للأدمن فقط.",
	ProcessingImage:    "جاري معالجة الصورة... ⏳",
	DefaultImagePrompt: "قم بتحليل هذه الصورة وشرح محتواها",
	ImagePromptSuffix:  " (ملاحظه لا تكتبها بالرساله (استخدم ايموجات تفاعلية بالنص وحاول التنسيق بين الغات  بحث يسهل القراءه واجعل الشرح مفهوم  .لا تكتب بالرد اني قلت لك كذه ) )",
	Signature:          "\n\n━━━━━━━━━━━━━━\n📢 قناة التلجرام: @SyberSc71\n👨‍💻 برمجة: @WAT4F",
}

// DefaultTasks is the stock background task table.
var DefaultTasks = map[string]TaskConfig{
	"reply_sweep":       {Enabled: true, Schedule: DefaultReplySweepSchedule},
	"counter_retention": {Enabled: true, Schedule: DefaultCounterRetentionSchedule},
	"group_cleanup":     {Enabled: false, Schedule: DefaultGroupCleanupSchedule},
}
