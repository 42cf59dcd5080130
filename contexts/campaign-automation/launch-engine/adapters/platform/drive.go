package platformadapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	driveFolderMimeType = "application/vnd.google-apps.folder"
	driveFolderFields   = "files(id,name)"
	driveFileFields     = "files(id,name,mimeType,thumbnailLink,webViewLink,size,createdTime)"

	demoAssetURL     = "https://placehold.co/800x600/1a1a2e/7c3aed?text=Demo+Asset"
	demoThumbnailURL = "https://placehold.co/200x200/1a1a2e/7c3aed?text=Thumb"
)

// GoogleDriveAdapter browses image and video assets through the Drive v3 API.
type GoogleDriveAdapter struct {
	endpoint string
	service  *drive.Service
}

func NewGoogleDriveAdapter(endpoint string) *GoogleDriveAdapter {
	return &GoogleDriveAdapter{endpoint: strings.TrimSpace(endpoint)}
}

func (a *GoogleDriveAdapter) Connect(ctx context.Context, tokens entities.OAuthTokens) error {
	if strings.TrimSpace(tokens.AccessToken) == "" {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformGoogleDrive), Reason: "missing access token"}
	}
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tokens.AccessToken})),
	}
	if a.endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.endpoint))
	}
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformGoogleDrive), Reason: "drive client init failed", Err: err}
	}
	a.service = service
	return nil
}

func (a *GoogleDriveAdapter) connected() error {
	if a.service == nil {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformGoogleDrive), Reason: "adapter is not connected"}
	}
	return nil
}

func (a *GoogleDriveAdapter) ListFolders(ctx context.Context, parentID string) ([]ports.DriveFolder, error) {
	if err := a.connected(); err != nil {
		return nil, err
	}
	parent := strings.TrimSpace(parentID)
	if parent == "" {
		parent = "root"
	}
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", escapeDriveQuery(parent), driveFolderMimeType)
	list, err := a.service.Files.List().
		Q(query).
		Fields(driveFolderFields).
		OrderBy("name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, driveError(err)
	}
	folders := make([]ports.DriveFolder, 0, len(list.Files))
	for _, file := range list.Files {
		folders = append(folders, ports.DriveFolder{ID: file.Id, Name: file.Name, Path: "/" + file.Name})
	}
	return folders, nil
}

func (a *GoogleDriveAdapter) ListFiles(ctx context.Context, folderID string) ([]ports.DriveFile, error) {
	if err := a.connected(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"'%s' in parents and (mimeType contains 'image/' or mimeType contains 'video/') and trashed=false",
		escapeDriveQuery(strings.TrimSpace(folderID)),
	)
	list, err := a.service.Files.List().
		Q(query).
		Fields(driveFileFields).
		OrderBy("createdTime desc").
		Context(ctx).
		Do()
	if err != nil {
		return nil, driveError(err)
	}
	files := make([]ports.DriveFile, 0, len(list.Files))
	for _, file := range list.Files {
		files = append(files, ports.DriveFile{
			ID:           file.Id,
			Name:         file.Name,
			MimeType:     file.MimeType,
			ThumbnailURL: file.ThumbnailLink,
			WebViewLink:  file.WebViewLink,
			Size:         file.Size,
			CreatedTime:  file.CreatedTime,
		})
	}
	return files, nil
}

func (a *GoogleDriveAdapter) FileURL(_ context.Context, fileID string) (string, error) {
	return fmt.Sprintf("https://drive.google.com/uc?id=%s&export=view", strings.TrimSpace(fileID)), nil
}

func (a *GoogleDriveAdapter) ThumbnailURL(_ context.Context, fileID string) (string, error) {
	return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w200", strings.TrimSpace(fileID)), nil
}

func escapeDriveQuery(value string) string {
	return strings.ReplaceAll(strings.ReplaceAll(value, `\`, `\\`), `'`, `\'`)
}

func driveError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &domainerrors.PlatformAPIError{
			Platform: string(entities.PlatformGoogleDrive),
			Message:  err.Error(),
			Category: domainerrors.CategoryTemporary,
		}
	}
	category := domainerrors.CategoryDefinitive
	if apiErr.Code == 429 || apiErr.Code >= 500 {
		category = domainerrors.CategoryTemporary
	}
	message := apiErr.Message
	if message == "" {
		message = apiErr.Error()
	}
	return &domainerrors.PlatformAPIError{
		Platform: string(entities.PlatformGoogleDrive),
		Message:  message,
		Code:     apiErr.Code,
		Category: category,
	}
}

// SimulatedDriveAdapter serves a fixed demo library.
type SimulatedDriveAdapter struct{}

var (
	demoFolders = []ports.DriveFolder{
		{ID: "folder_1", Name: "Marketing Assets", Path: "/Marketing Assets"},
		{ID: "folder_2", Name: "Product Photos", Path: "/Product Photos"},
		{ID: "folder_3", Name: "Brand Kit", Path: "/Brand Kit"},
		{ID: "folder_4", Name: "Ad Creatives", Path: "/Ad Creatives"},
	}
	demoFiles = []ports.DriveFile{
		{ID: "file_1", Name: "hero-banner.jpg", MimeType: "image/jpeg", Size: 245000, CreatedTime: "2024-01-15T10:30:00Z"},
		{ID: "file_2", Name: "product-showcase.png", MimeType: "image/png", Size: 189000, CreatedTime: "2024-01-16T14:20:00Z"},
		{ID: "file_3", Name: "lifestyle-photo.jpg", MimeType: "image/jpeg", Size: 312000, CreatedTime: "2024-01-17T09:15:00Z"},
		{ID: "file_4", Name: "promo-video.mp4", MimeType: "video/mp4", Size: 5240000, CreatedTime: "2024-01-18T16:45:00Z"},
		{ID: "file_5", Name: "testimonial-graphic.png", MimeType: "image/png", Size: 156000, CreatedTime: "2024-01-19T11:00:00Z"},
		{ID: "file_6", Name: "logo-dark.svg", MimeType: "image/svg+xml", Size: 8500, CreatedTime: "2024-01-10T08:00:00Z"},
	}
)

func (SimulatedDriveAdapter) Connect(context.Context, entities.OAuthTokens) error {
	return nil
}

func (SimulatedDriveAdapter) ListFolders(context.Context, string) ([]ports.DriveFolder, error) {
	return append([]ports.DriveFolder(nil), demoFolders...), nil
}

func (SimulatedDriveAdapter) ListFiles(context.Context, string) ([]ports.DriveFile, error) {
	files := make([]ports.DriveFile, 0, len(demoFiles))
	for _, file := range demoFiles {
		file.ThumbnailURL = demoThumbnailURL
		file.WebViewLink = demoAssetURL
		files = append(files, file)
	}
	return files, nil
}

func (SimulatedDriveAdapter) FileURL(context.Context, string) (string, error) {
	return demoAssetURL, nil
}

func (SimulatedDriveAdapter) ThumbnailURL(context.Context, string) (string, error) {
	return demoThumbnailURL, nil
}
