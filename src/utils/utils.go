package utils

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/NathyVZM/hashtage-backend/src/core/database"

	storage_go "github.com/supabase-community/storage-go"
)

// UploadToSupabaseStorage uploads a file to Supabase storage and returns the file's path, public URL, and content type.
func UploadToSupabaseStorage(file *multipart.FileHeader, path string) (string, string, string, error) {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return "", "", "", err
	}

	fileBody, err := file.Open()
	if err != nil {
		return "", "", "", err
	}
	defer fileBody.Close()

	fileBytes, err := io.ReadAll(fileBody)
	if err != nil {
		return "", "", "", err
	}

	// Reset the file pointer to the beginning
	_, err = fileBody.Seek(0, io.SeekStart)
	if err != nil {
		return "", "", "", err
	}

	// Detect content type based on file contents
	contentType := http.DetectContentType(fileBytes)

	_, err = storageClient.UploadFile(bucketName, path, fileBody, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", "", "", err
	}

	response := storageClient.GetPublicUrl(bucketName, path)
	return path, response.SignedURL, contentType, nil
}

// ListPublicURLs returns the public URLs of every object stored under
// the given path prefix, in the order the store returns them.
func ListPublicURLs(prefix string) ([]string, error) {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return nil, err
	}

	objects, err := storageClient.ListFiles(bucketName, prefix, storage_go.FileSearchOptions{})
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(objects))
	for _, obj := range objects {
		response := storageClient.GetPublicUrl(bucketName, prefix+"/"+obj.Name)
		urls = append(urls, response.SignedURL)
	}
	return urls, nil
}

// DeleteByPrefix removes every object stored under the given path prefix.
func DeleteByPrefix(prefix string) error {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return err
	}

	objects, err := storageClient.ListFiles(bucketName, prefix, storage_go.FileSearchOptions{})
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return nil
	}

	paths := make([]string, 0, len(objects))
	for _, obj := range objects {
		paths = append(paths, prefix+"/"+obj.Name)
	}

	_, err = storageClient.RemoveFile(bucketName, paths)
	return err
}
