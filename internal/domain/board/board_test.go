package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		board   Board
		wantErr error
		wantSta int
	}{
		{name: "review with star: ok", board: Board{Type: TypeReview, Sta: 4}, wantSta: 4},
		{name: "review without star: error", board: Board{Type: TypeReview}, wantErr: ErrInvalidStar},
		{name: "review star above five: error", board: Board{Type: TypeReview, Sta: 6}, wantErr: ErrInvalidStar},
		{name: "qna star is dropped: ok", board: Board{Type: TypeQnA, Sta: 3}, wantSta: 0},
		{name: "unknown type: error", board: Board{Type: "notice"}, wantErr: ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.board
			err := validate(&b)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSta, b.Sta)
		})
	}
}
