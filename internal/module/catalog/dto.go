package catalog

import (
	"mime/multipart"
	"time"
)

// CreateAlbumForm is the multipart body of POST /albums.
type CreateAlbumForm struct {
	Title       string                `form:"title" binding:"required,max=200"`
	ArtistIDs   []uint                `form:"artistIds" binding:"required,min=1,dive,min=1"`
	ReleaseDate time.Time             `form:"releaseDate" time_format:"2006-01-02" binding:"required"`
	Cover       *multipart.FileHeader `form:"cover" binding:"required"`
}

// CreateTrackForm is the multipart body of POST /tracks.
type CreateTrackForm struct {
	Title       string                `form:"title" binding:"required,max=200"`
	ArtistIDs   []uint                `form:"artistIds" binding:"required,min=1,dive,min=1"`
	ReleaseDate time.Time             `form:"releaseDate" time_format:"2006-01-02" binding:"required"`
	Cover       *multipart.FileHeader `form:"cover"`
	Track       *multipart.FileHeader `form:"track" binding:"required"`
	GenreIDs    []uint                `form:"genreIds" binding:"omitempty,dive,min=1"`
	AlbumID     *uint                 `form:"albumId" binding:"omitempty,min=1"`
}
