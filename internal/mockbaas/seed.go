package mockbaas

import "github.com/jpalmerr/baaskit"

// Seed registers projectID and fills both boards with a few posts, enough
// to exercise paging and keyword search.
func Seed(st Store, projectID string) {
	st.AddProject(projectID)

	for _, p := range []baaskit.PostRecord{
		{Title: "Service launch", Content: "The service is now generally available.", Author: "admin"},
		{Title: "Scheduled maintenance", Content: "Maintenance window on Sunday 02:00 KST.", Author: "admin"},
		{Title: "New messaging vendor", Content: "Text messages now go through a second vendor.", Author: "ops"},
	} {
		p.CreatedAt = now()
		st.AddPost(baaskit.BoardNotice, projectID, p)
	}

	for _, p := range []baaskit.PostRecord{
		{Title: "How do I reset my password?", Content: "Use the reset link on the login page.", Author: "support"},
		{Title: "Which phone formats are accepted?", Content: "Mobile numbers in 010-XXXX-XXXX form.", Author: "support"},
	} {
		p.CreatedAt = now()
		st.AddPost(baaskit.BoardFAQ, projectID, p)
	}
}
