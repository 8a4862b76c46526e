package domain

import "testing"

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		File{}.TableName():        "files",
		ChatMessage{}.TableName(): "chat_messages",
		ForumThread{}.TableName(): "forum_threads",
		ForumPost{}.TableName():   "forum_posts",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("TableName = %q, want %q", got, want)
		}
	}
}
