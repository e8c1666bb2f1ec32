package i18n

// Package i18n provides the message catalogue shared by the console and
// graphical front-ends.

import "fmt"

// Localization manages user-facing text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Supported language codes
const (
	LangEnglish = "en"
	LangSpanish = "es"
	LangSystem  = "system"
)

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyBanner           = "banner"
	KeyEnterURLPrompt   = "enter_url_prompt"
	KeyExitHint         = "exit_hint"
	KeyURLLabel         = "url_label"
	KeyGoodbye          = "goodbye"
	KeyPleaseEnterURL   = "please_enter_url"
	KeyInvalidURL       = "invalid_url"
	KeyFetchingInfo     = "fetching_info"
	KeyTitle            = "title"
	KeyChannel          = "channel"
	KeyDuration         = "duration"
	KeyNoFormats        = "no_formats"
	KeyAvailable        = "available_qualities"
	KeySelectQuality    = "select_quality"
	KeyOptionLabel      = "option_label"
	KeySelectRange      = "select_range"
	KeyNotANumber       = "not_a_number"
	KeyConfirmQuality   = "confirm_quality"
	KeyConfirmPrompt    = "confirm_prompt"
	KeyCancelled        = "cancelled"
	KeyDownloadingTitle = "downloading_title"
	KeyDownloadDone     = "download_done"
	KeyLocation         = "location"
	KeyError            = "error"
	KeyRetryHint        = "retry_hint"
	KeyInterrupted      = "interrupted"
	KeyFatal            = "fatal"
	KeyUntitled         = "untitled"
	KeyUnknownUploader  = "unknown_uploader"
	KeyMerging          = "merging"

	KeyEnterURL        = "enter_url"
	KeyGetInfo         = "get_info"
	KeyVideoInfo       = "video_info"
	KeyQualityFrame    = "quality_frame"
	KeyDestination     = "destination"
	KeyChange          = "change"
	KeyOpenFolder      = "open_folder"
	KeyDownload        = "download"
	KeyReady           = "ready"
	KeyVideoReady      = "video_ready"
	KeyDownloading     = "downloading"
	KeyDownloadFailed  = "download_failed"
	KeyErrorTitle      = "error_title"
	KeyChooseQuality   = "choose_quality"
	KeyConfirmTitle    = "confirm_title"
	KeyFetchFailed     = "fetch_failed"
	KeyFile            = "file"
	KeyLanguage        = "language"
	KeyQuit            = "quit"
	KeyErrorOpenFolder = "error_open_folder"

	KeyPlaylistHeader = "playlist_header"
	KeyPlaylistEmpty  = "playlist_empty"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == LangSystem {
		// system locale is not probed; English is the default
		lang = LangEnglish
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LangEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Textf returns localized text for the given key formatted with args
func (l *Localization) Textf(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish: "English",
		LangSpanish: "Español",
	}
}

// IsSupported reports whether lang has a catalogue (or is "system")
func (l *Localization) IsSupported(lang string) bool {
	if lang == LangSystem {
		return true
	}
	_, ok := l.texts[lang]
	return ok
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts[LangEnglish] = map[string]string{
		KeyAppTitle:         "YT Picker",
		KeyBanner:           "🎥 YouTube Video Downloader",
		KeyEnterURLPrompt:   "📎 Paste the YouTube video link:",
		KeyExitHint:         "(or type 'exit' to quit)",
		KeyURLLabel:         "URL: ",
		KeyGoodbye:          "👋 Goodbye!",
		KeyPleaseEnterURL:   "❌ Please enter a valid URL.",
		KeyInvalidURL:       "❌ The URL does not look like YouTube. Try again.",
		KeyFetchingInfo:     "🔍 Fetching video information...",
		KeyTitle:            "Title",
		KeyChannel:          "Channel",
		KeyDuration:         "Duration",
		KeyNoFormats:        "❌ No downloadable formats found.",
		KeyAvailable:        "🎬 Available qualities:",
		KeySelectQuality:    "🎯 Select the quality (1-%d):",
		KeyOptionLabel:      "Option: ",
		KeySelectRange:      "❌ Please select a number between 1 and %d",
		KeyNotANumber:       "❌ Please enter a valid number.",
		KeyConfirmQuality:   "📥 Download in %s quality?",
		KeyConfirmPrompt:    "Confirm (y/n): ",
		KeyCancelled:        "❌ Download cancelled.",
		KeyDownloadingTitle: "🔄 Downloading: %s",
		KeyDownloadDone:     "✅ Download completed!",
		KeyLocation:         "📁 Location: %s",
		KeyError:            "❌ Error: %s",
		KeyRetryHint:        "Try another video or check your internet connection.",
		KeyInterrupted:      "👋 Interrupted by user.",
		KeyFatal:            "Fatal error: %s",
		KeyUntitled:         "Untitled video",
		KeyUnknownUploader:  "Unknown",
		KeyMerging:          "🔀 Merging video and audio...",

		KeyEnterURL:        "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeyGetInfo:         "Get Info",
		KeyVideoInfo:       "Video Information",
		KeyQualityFrame:    "Select Quality",
		KeyDestination:     "Destination folder:",
		KeyChange:          "Change",
		KeyOpenFolder:      "Open Folder",
		KeyDownload:        "⬇ Download Video",
		KeyReady:           "Ready",
		KeyVideoReady:      "Video ready to download",
		KeyDownloading:     "Downloading video...",
		KeyDownloadFailed:  "Download failed",
		KeyErrorTitle:      "Error",
		KeyChooseQuality:   "Please select a quality",
		KeyConfirmTitle:    "Confirm download",
		KeyFetchFailed:     "Could not fetch video information: %s",
		KeyFile:            "File",
		KeyLanguage:        "Language",
		KeyQuit:            "Quit",
		KeyErrorOpenFolder: "Error opening folder",

		KeyPlaylistHeader: "📃 %s (%d videos)",
		KeyPlaylistEmpty:  "The playlist has no videos.",
	}

	// Spanish texts
	l.texts[LangSpanish] = map[string]string{
		KeyAppTitle:         "YT Picker",
		KeyBanner:           "🎥 YouTube Video Downloader",
		KeyEnterURLPrompt:   "📎 Ingresa el link del video de YouTube:",
		KeyExitHint:         "(o escribe 'salir' para terminar)",
		KeyURLLabel:         "URL: ",
		KeyGoodbye:          "👋 ¡Hasta luego!",
		KeyPleaseEnterURL:   "❌ Por favor ingresa una URL válida.",
		KeyInvalidURL:       "❌ La URL no parece ser de YouTube. Intenta de nuevo.",
		KeyFetchingInfo:     "🔍 Obteniendo información del video...",
		KeyTitle:            "Título",
		KeyChannel:          "Canal",
		KeyDuration:         "Duración",
		KeyNoFormats:        "❌ No se encontraron formatos disponibles.",
		KeyAvailable:        "🎬 Calidades disponibles:",
		KeySelectQuality:    "🎯 Selecciona la calidad (1-%d):",
		KeyOptionLabel:      "Opción: ",
		KeySelectRange:      "❌ Por favor selecciona un número entre 1 y %d",
		KeyNotANumber:       "❌ Por favor ingresa un número válido.",
		KeyConfirmQuality:   "📥 ¿Descargar en calidad %s?",
		KeyConfirmPrompt:    "Confirmar (s/n): ",
		KeyCancelled:        "❌ Descarga cancelada.",
		KeyDownloadingTitle: "🔄 Descargando: %s",
		KeyDownloadDone:     "✅ ¡Descarga completada!",
		KeyLocation:         "📁 Ubicación: %s",
		KeyError:            "❌ Error: %s",
		KeyRetryHint:        "Intenta con otro video o verifica tu conexión a internet.",
		KeyInterrupted:      "👋 Programa interrumpido por el usuario.",
		KeyFatal:            "Error fatal: %s",
		KeyUntitled:         "Video sin título",
		KeyUnknownUploader:  "Desconocido",
		KeyMerging:          "🔀 Uniendo video y audio...",

		KeyEnterURL:        "Ingresa la URL de YouTube (https://youtube.com/watch?v=...)",
		KeyGetInfo:         "Obtener Info",
		KeyVideoInfo:       "Información del Video",
		KeyQualityFrame:    "Seleccionar Calidad",
		KeyDestination:     "Carpeta destino:",
		KeyChange:          "Cambiar",
		KeyOpenFolder:      "Abrir Carpeta",
		KeyDownload:        "⬇ Descargar Video",
		KeyReady:           "Listo para usar",
		KeyVideoReady:      "Video listo para descargar",
		KeyDownloading:     "Descargando video...",
		KeyDownloadFailed:  "Error en la descarga",
		KeyErrorTitle:      "Error",
		KeyChooseQuality:   "Por favor selecciona una calidad",
		KeyConfirmTitle:    "Confirmar descarga",
		KeyFetchFailed:     "Error al obtener información: %s",
		KeyFile:            "Archivo",
		KeyLanguage:        "Idioma",
		KeyQuit:            "Salir",
		KeyErrorOpenFolder: "Error al abrir la carpeta",

		KeyPlaylistHeader: "📃 %s (%d videos)",
		KeyPlaylistEmpty:  "La lista no tiene videos.",
	}
}
