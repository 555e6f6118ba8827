package models

// Blog is a single listed post. User is populated on reads.
type Blog struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	URL      string   `json:"url"`
	Likes    int      `json:"likes"`
	User     *UserRef `json:"user,omitempty"`
	Comments []string `json:"comments"`
}

// BlogRef is the populated form of an entry in User.Blogs.
type BlogRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}
