package respwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMessage(t *testing.T) {
	cases := []struct {
		name    string
		subject string
		from    string
		want    ResponseClass
		ok      bool
	}{
		{"interview", "Interview availability for Data Engineer", "talent@acme.com", ClassInterview, true},
		{"phone screen", "Phone screen - next week?", "recruiting@acme.com", ClassInterview, true},
		{"rejection", "Update on your application", "hr@acme.com", "", false},
		{"rejection explicit", "Unfortunately we have decided to move on", "hr@acme.com", ClassRejection, true},
		{"ack", "Thank you for applying to Acme", "careers@acme.com", ClassAcknowledgement, true},
		{"interview beats ack wording", "Thank you for applying - interview next steps", "hr@acme.com", ClassInterview, true},
		{"newsletter noise", "Interview tips for your job search", "jobalerts@indeed.com", "", false},
		{"unrelated", "Your weekly digest", "digest@example.com", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ClassifyMessage(tc.subject, tc.from)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompanyKeyFromSender(t *testing.T) {
	assert.Equal(t, "acme", CompanyKeyFromSender("talent@acme.com"))
	assert.Equal(t, "acme", CompanyKeyFromSender("Talent Team <no-reply@mail.acme.com>"))
	assert.Equal(t, "globex", CompanyKeyFromSender("hr@GLOBEX.IO"))
	assert.Equal(t, "", CompanyKeyFromSender("not-an-address"))
	assert.Equal(t, "", CompanyKeyFromSender("trailing@"))
}
