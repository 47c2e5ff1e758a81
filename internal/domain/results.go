package domain

const (
	SourceYouTube   = "youtube"
	SourceReddit    = "reddit"
	SourceGoogle    = "google"
	SourceX         = "x"
	SourceInstagram = "instagram"
	SourceTikTok    = "tiktok"
	SourceLinkedIn  = "linkedin"
)

// AllSources - фиксированный набор ключей ответа, порядок важен для вывода
var AllSources = []string{
	SourceYouTube,
	SourceReddit,
	SourceGoogle,
	SourceX,
	SourceInstagram,
	SourceTikTok,
	SourceLinkedIn,
}

type VideoResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	ChannelName string `json:"channelName"`
	ChannelIcon string `json:"channelIcon"`
	ViewCount   string `json:"viewCount"`
	PublishedAt string `json:"publishedAt"`
	Duration    string `json:"duration"`
	VideoID     string `json:"videoId"`
}

type RedditResult struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	URL          string   `json:"url"`
	Subreddit    string   `json:"subreddit"`
	Author       string   `json:"author"`
	Upvotes      int64    `json:"upvotes"`
	CommentCount int64    `json:"commentCount"`
	Awards       []string `json:"awards"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	IsTextPost   bool     `json:"isTextPost"`
	CreatedAt    string   `json:"createdAt"`
}

type WebResult struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	URL        string `json:"url"`
	Favicon    string `json:"favicon"`
	SiteName   string `json:"siteName"`
	Screenshot string `json:"screenshot"`
}

type Tweet struct {
	ID                 string `json:"id"`
	Text               string `json:"text"`
	AuthorName         string `json:"authorName"`
	AuthorUsername     string `json:"authorUsername"`
	AuthorProfileImage string `json:"authorProfileImage"`
	CreatedAt          string `json:"createdAt"`
	URL                string `json:"url"`
	Source             string `json:"source"`
	Replies            int64  `json:"replies"`
	Retweets           int64  `json:"retweets"`
	Favorites          int64  `json:"favorites"`
	Views              int64  `json:"views"`
}

type InstagramUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FullName      string `json:"fullName"`
	ProfilePicURL string `json:"profilePicUrl"`
	IsVerified    bool   `json:"isVerified"`
}

type InstagramHashtag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MediaCount int64  `json:"mediaCount"`
}

type InstagramPlace struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	LocationName string `json:"locationName"`
}

// InstagramResult - единственный источник с объектом вместо массива
type InstagramResult struct {
	Users    []InstagramUser    `json:"users"`
	Hashtags []InstagramHashtag `json:"hashtags"`
	Places   []InstagramPlace   `json:"places"`
}

type TikTokEntryType string

const (
	TikTokVideoEntry TikTokEntryType = "video"
	TikTokUsersEntry TikTokEntryType = "users"
)

// TikTokEntry - tagged union: Video заполнен для "video", Users для "users"
type TikTokEntry struct {
	Type  TikTokEntryType `json:"type"`
	Video *TikTokVideo    `json:"video,omitempty"`
	Users []TikTokUser    `json:"users,omitempty"`
}

type TikTokVideo struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Thumbnail   string       `json:"thumbnail"`
	Duration    string       `json:"duration"`
	CreatedAt   string       `json:"createdAt"`
	Author      TikTokAuthor `json:"author"`
	Stats       TikTokStats  `json:"stats"`
}

type TikTokAuthor struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type TikTokStats struct {
	Plays    string `json:"plays"`
	Likes    string `json:"likes"`
	Comments string `json:"comments"`
	Shares   string `json:"shares"`
}

type TikTokUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Followers string `json:"followers"`
	URL       string `json:"url"`
}

type LinkedInPost struct {
	URL      string         `json:"url"`
	Content  string         `json:"content"`
	Image    *string        `json:"image"`
	PostedAt string         `json:"postedAt"`
	Author   LinkedInAuthor `json:"author"`
	Stats    LinkedInStats  `json:"stats"`
}

type LinkedInAuthor struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	SubDescription string  `json:"subDescription"`
	Avatar         *string `json:"avatar"`
}

type LinkedInStats struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// AggregateResult - объединенный ответ. Все ключи присутствуют всегда,
// пустые источники сериализуются как [] (см. Normalize).
type AggregateResult struct {
	YouTube   []VideoResult   `json:"youtube"`
	Reddit    []RedditResult  `json:"reddit"`
	Google    []WebResult     `json:"google"`
	X         []Tweet         `json:"x"`
	Instagram InstagramResult `json:"instagram"`
	TikTok    []TikTokEntry   `json:"tiktok"`
	LinkedIn  []LinkedInPost  `json:"linkedin"`
	Error     string          `json:"error,omitempty"`
}

func EmptyAggregate() *AggregateResult {
	r := &AggregateResult{}
	r.Normalize()
	return r
}

// Normalize заменяет nil-слайсы пустыми, чтобы JSON никогда не содержал null
func (r *AggregateResult) Normalize() {
	if r.YouTube == nil {
		r.YouTube = []VideoResult{}
	}
	if r.Reddit == nil {
		r.Reddit = []RedditResult{}
	}
	for i := range r.Reddit {
		if r.Reddit[i].Awards == nil {
			r.Reddit[i].Awards = []string{}
		}
	}
	if r.Google == nil {
		r.Google = []WebResult{}
	}
	if r.X == nil {
		r.X = []Tweet{}
	}
	r.Instagram.Normalize()
	if r.TikTok == nil {
		r.TikTok = []TikTokEntry{}
	}
	if r.LinkedIn == nil {
		r.LinkedIn = []LinkedInPost{}
	}
}

func (r *InstagramResult) Normalize() {
	if r.Users == nil {
		r.Users = []InstagramUser{}
	}
	if r.Hashtags == nil {
		r.Hashtags = []InstagramHashtag{}
	}
	if r.Places == nil {
		r.Places = []InstagramPlace{}
	}
}

func (r InstagramResult) Len() int {
	return len(r.Users) + len(r.Hashtags) + len(r.Places)
}

// Counts - количество записей по каждому источнику
func (r *AggregateResult) Counts() map[string]int {
	return map[string]int{
		SourceYouTube:   len(r.YouTube),
		SourceReddit:    len(r.Reddit),
		SourceGoogle:    len(r.Google),
		SourceX:         len(r.X),
		SourceInstagram: r.Instagram.Len(),
		SourceTikTok:    len(r.TikTok),
		SourceLinkedIn:  len(r.LinkedIn),
	}
}

func (r *AggregateResult) Total() int {
	total := 0
	for _, n := range r.Counts() {
		total += n
	}
	return total
}
